package core

import (
	"math"
	"sort"

	"rakshak.com/rakshak/attendance/model"
)

// DailyRecord is the normalized per (employee, date) summary derived
// from the punch log. It is computed on read and never stored.
type DailyRecord struct {
	Date              string
	PunchIn           model.Timestamp
	PunchOut          model.Timestamp
	TotalWorkingHours float64
	Status            model.PunchStatus
	AmbulanceID       *int64
}

// Aggregate reduces all punch events sharing one date bucket to a
// DailyRecord. The date bucket is the value supplied at submission
// time, not the calendar day of the punch time, so a late-night punch
// stays on the day the crew signed on. Returns false when the bucket
// holds no punch activity.
func Aggregate(events []model.PunchEvent) (DailyRecord, bool) {
	if len(events) == 0 {
		return DailyRecord{}, false
	}

	sorted := make([]model.PunchEvent, len(events))
	copy(sorted, events)
	// Zero punch times sort first; equal times break by insertion order.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PunchTime.Equal(sorted[j].PunchTime.Time) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].PunchTime.Before(sorted[j].PunchTime.Time)
	})

	rec := DailyRecord{Date: sorted[0].Date}

	var firstIn *model.PunchEvent
	for i := range sorted {
		if sorted[i].Status == model.StatusPunchIn {
			firstIn = &sorted[i]
			break
		}
	}

	last := &sorted[len(sorted)-1]

	if firstIn != nil {
		rec.PunchIn = firstIn.PunchTime
		rec.Status = model.StatusPunchIn
		rec.AmbulanceID = firstIn.AmbulanceID
	} else {
		rec.AmbulanceID = last.AmbulanceID
	}

	if last.Status == model.StatusPunchOut {
		rec.PunchOut = last.PunchTime
		if firstIn != nil && !firstIn.PunchTime.IsZero() && !last.PunchTime.IsZero() {
			rec.Status = model.StatusPunchOut
			rec.TotalWorkingHours = workingHours(firstIn.PunchTime, last.PunchTime)
		}
	}

	if rec.PunchIn.IsZero() && rec.PunchOut.IsZero() {
		return DailyRecord{}, false
	}
	return rec, true
}

// workingHours is the span between punch-in and punch-out rounded to
// two decimals. Malformed input that would produce a negative or NaN
// span clamps to zero.
func workingHours(in, out model.Timestamp) float64 {
	hours := out.Sub(in.Time).Hours()
	if math.IsNaN(hours) || hours < 0 {
		return 0
	}
	return math.Round(hours*100) / 100
}
