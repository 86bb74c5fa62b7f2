package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/utils"
)

func event(id int64, status model.PunchStatus, at string) model.PunchEvent {
	return model.PunchEvent{
		ID:           id,
		EmployeeID:   1,
		AmbulanceID:  utils.Ptr(int64(100)),
		Status:       status,
		PunchOutType: model.PunchOutManual,
		PunchTime:    model.ParseTimestamp(at),
		Date:         "2025-03-10",
	}
}

func TestAggregateClosedDay(t *testing.T) {
	rec, ok := Aggregate([]model.PunchEvent{
		event(1, model.StatusPunchIn, "2025-03-10 08:00:00"),
		event(2, model.StatusPunchOut, "2025-03-10 16:30:00"),
	})

	require.True(t, ok)
	assert.Equal(t, "2025-03-10 08:00:00", rec.PunchIn.String())
	assert.Equal(t, "2025-03-10 16:30:00", rec.PunchOut.String())
	assert.Equal(t, 8.5, rec.TotalWorkingHours)
	assert.Equal(t, model.StatusPunchOut, rec.Status)
	assert.Equal(t, int64(100), *rec.AmbulanceID)
}

func TestAggregateOpenDay(t *testing.T) {
	rec, ok := Aggregate([]model.PunchEvent{
		event(1, model.StatusPunchIn, "2025-03-10 08:00:00"),
	})

	require.True(t, ok)
	assert.Equal(t, "2025-03-10 08:00:00", rec.PunchIn.String())
	assert.Empty(t, rec.PunchOut.String())
	assert.Zero(t, rec.TotalWorkingHours)
	assert.Equal(t, model.StatusPunchIn, rec.Status)
}

func TestAggregateEmptyDay(t *testing.T) {
	_, ok := Aggregate(nil)
	assert.False(t, ok)
}

func TestAggregateUnsortedInput(t *testing.T) {
	rec, ok := Aggregate([]model.PunchEvent{
		event(3, model.StatusPunchOut, "2025-03-10 16:30:00"),
		event(1, model.StatusPunchIn, "2025-03-10 08:00:00"),
		event(2, model.StatusPunchOut, "2025-03-10 12:00:00"),
	})

	require.True(t, ok)
	assert.Equal(t, "2025-03-10 08:00:00", rec.PunchIn.String())
	assert.Equal(t, "2025-03-10 16:30:00", rec.PunchOut.String())
	assert.Equal(t, 8.5, rec.TotalWorkingHours)
}

func TestAggregateMultiplePunchIns(t *testing.T) {
	// the earliest punch-in anchors the day
	rec, ok := Aggregate([]model.PunchEvent{
		event(1, model.StatusPunchIn, "2025-03-10 08:00:00"),
		event(2, model.StatusPunchOut, "2025-03-10 12:00:00"),
		event(3, model.StatusPunchIn, "2025-03-10 13:00:00"),
		event(4, model.StatusPunchOut, "2025-03-10 17:00:00"),
	})

	require.True(t, ok)
	assert.Equal(t, "2025-03-10 08:00:00", rec.PunchIn.String())
	assert.Equal(t, 9.0, rec.TotalWorkingHours)
	assert.Equal(t, model.StatusPunchOut, rec.Status)
}

func TestAggregateUnparseableTimeSortsFirst(t *testing.T) {
	broken := event(5, model.StatusPunchOut, "not a timestamp")
	rec, ok := Aggregate([]model.PunchEvent{
		event(1, model.StatusPunchIn, "2025-03-10 08:00:00"),
		broken,
		event(2, model.StatusPunchOut, "2025-03-10 16:30:00"),
	})

	require.True(t, ok)
	// the broken punch-out must not end the day
	assert.Equal(t, "2025-03-10 16:30:00", rec.PunchOut.String())
	assert.Equal(t, 8.5, rec.TotalWorkingHours)
}

func TestAggregateClampsNegativeSpan(t *testing.T) {
	// punch-out recorded before punch-in (device clock skew): the day
	// still closes but never with negative hours
	rec, ok := Aggregate([]model.PunchEvent{
		{ID: 1, Status: model.StatusPunchIn, PunchOutType: model.PunchOutManual,
			PunchTime: model.ParseTimestamp("2025-03-10 08:00:00"), Date: "2025-03-10"},
		{ID: 2, Status: model.StatusPunchOut, PunchOutType: model.PunchOutManual,
			PunchTime: model.ParseTimestamp("2025-03-10 08:00:00"), Date: "2025-03-10"},
	})
	require.True(t, ok)
	assert.Zero(t, rec.TotalWorkingHours)

	assert.Zero(t, workingHours(
		model.NewTimestamp(time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)),
		model.NewTimestamp(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)),
	))
}

func TestAggregateTieBreakByInsertionOrder(t *testing.T) {
	// equal punch times: the higher id is the later record
	rec, ok := Aggregate([]model.PunchEvent{
		event(2, model.StatusPunchOut, "2025-03-10 16:00:00"),
		event(1, model.StatusPunchIn, "2025-03-10 16:00:00"),
	})

	require.True(t, ok)
	assert.Equal(t, model.StatusPunchOut, rec.Status)
}

func TestAggregateRounding(t *testing.T) {
	rec, ok := Aggregate([]model.PunchEvent{
		event(1, model.StatusPunchIn, "2025-03-10 08:00:00"),
		event(2, model.StatusPunchOut, "2025-03-10 08:10:00"),
	})

	require.True(t, ok)
	assert.Equal(t, 0.17, rec.TotalWorkingHours)
}
