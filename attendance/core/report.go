package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rakshak.com/rakshak/attendance/model"
)

// CategoryCache caches the category table for report building. It is
// owned by the Reporter and passed where needed; there is no ambient
// package-level state. Entries expire after the TTL and reload lazily.
type CategoryCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	loadedAt time.Time
	byID     map[int64]model.Category
	load     func(ctx context.Context) ([]model.Category, error)
}

func NewCategoryCache(ttl time.Duration, load func(ctx context.Context) ([]model.Category, error)) *CategoryCache {
	return &CategoryCache{ttl: ttl, load: load}
}

// Name returns the category name for the id, or "" when the id is nil
// or unknown.
func (c *CategoryCache) Name(ctx context.Context, id *int64) (string, error) {
	if id == nil {
		return "", nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byID == nil || time.Since(c.loadedAt) > c.ttl {
		categories, err := c.load(ctx)
		if err != nil {
			return "", err
		}
		c.byID = make(map[int64]model.Category, len(categories))
		for _, cat := range categories {
			c.byID[cat.ID] = cat
		}
		c.loadedAt = time.Now()
	}
	cat, ok := c.byID[*id]
	if !ok {
		return "", nil
	}
	return cat.Name, nil
}

func (c *CategoryCache) Invalidate() {
	c.mu.Lock()
	c.byID = nil
	c.mu.Unlock()
}

// AttendanceRow is one day of an employee's report.
type AttendanceRow struct {
	Date             string  `json:"date"`
	Status           string  `json:"status"`
	Reason           string  `json:"reason"`
	PunchIn          string  `json:"punchIn"`
	PunchOut         string  `json:"punchOut"`
	TotalWorkingHour float64 `json:"totalWorkingHour"`
	AmbulanceNumber  string  `json:"ambulanceNumber"`
}

type EmployeeAttendance struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	PhoneNumber string          `json:"phoneNumber"`
	UserRole    string          `json:"userRole"`
	Attendance  []AttendanceRow `json:"attendance"`
}

// RoleBuckets maps a normalized role name to the employees reported
// under it, in input order.
type RoleBuckets map[string][]EmployeeAttendance

// Reporter groups aggregated daily records by employee role. Employees
// whose category is missing or not one of the configured roles are
// silently excluded.
type Reporter struct {
	roles []string
	cache *CategoryCache
}

func NewReporter(roles []string, cache *CategoryCache) *Reporter {
	normalized := make([]string, len(roles))
	for i, r := range roles {
		normalized[i] = strings.ToLower(r)
	}
	return &Reporter{roles: normalized, cache: cache}
}

func (r *Reporter) Roles() []string {
	return r.roles
}

// BuildReport assembles the role-bucketed report. eventsByEmployee
// holds each employee's punch events keyed by date bucket;
// ambulanceNumbers resolves ambulance ids for display.
func (r *Reporter) BuildReport(ctx context.Context, employees []model.Employee,
	eventsByEmployee map[int64]map[string][]model.PunchEvent,
	ambulanceNumbers map[int64]string) (RoleBuckets, error) {

	report := make(RoleBuckets, len(r.roles))
	for _, role := range r.roles {
		report[role] = []EmployeeAttendance{}
	}

	for _, emp := range employees {
		role, err := r.cache.Name(ctx, emp.CategoryID)
		if err != nil {
			return nil, err
		}
		role = strings.ToLower(role)
		if _, ok := report[role]; !ok {
			continue
		}

		entry := EmployeeAttendance{
			ID:          displayID(emp.ID),
			Name:        emp.Name,
			PhoneNumber: emp.PhoneNumber,
			UserRole:    role,
			Attendance:  []AttendanceRow{},
		}

		for _, dateEvents := range orderedBuckets(eventsByEmployee[emp.ID]) {
			rec, ok := Aggregate(dateEvents)
			if !ok {
				continue
			}
			row := AttendanceRow{
				Date:             rec.Date,
				Status:           string(rec.Status),
				PunchIn:          rec.PunchIn.String(),
				PunchOut:         rec.PunchOut.String(),
				TotalWorkingHour: rec.TotalWorkingHours,
			}
			if rec.AmbulanceID != nil {
				row.AmbulanceNumber = ambulanceNumbers[*rec.AmbulanceID]
			}
			entry.Attendance = append(entry.Attendance, row)
		}

		report[role] = append(report[role], entry)
	}
	return report, nil
}

func displayID(id int64) string {
	return fmt.Sprintf("DRV%05d", id)
}

// orderedBuckets returns the date buckets sorted ascending so report
// rows come out chronologically.
func orderedBuckets(buckets map[string][]model.PunchEvent) [][]model.PunchEvent {
	if len(buckets) == 0 {
		return nil
	}
	dates := make([]string, 0, len(buckets))
	for d := range buckets {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	out := make([][]model.PunchEvent, 0, len(dates))
	for _, d := range dates {
		out = append(out, buckets[d])
	}
	return out
}
