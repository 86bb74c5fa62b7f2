package ambulance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attendance "rakshak.com/rakshak/attendance/core"
	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/utils"
)

func TestEmployeeDetailRows(t *testing.T) {
	driver := model.Category{ID: 10, Name: "Driver", ShiftStartTime: utils.Ptr("06:00"), ShiftEndTime: utils.Ptr("18:00")}
	employees := []model.Employee{
		{ID: 1, Name: "Asha", PhoneNumber: "9000000001", Category: &driver},
		{ID: 2, Name: "Ravi", PhoneNumber: "9000000002"},
		{ID: 3, Name: "Meena", PhoneNumber: "9000000003", Category: &driver},
	}
	recs := map[int64]attendance.DailyRecord{
		1: {
			Date:     "2025-03-10",
			PunchIn:  model.ParseTimestamp("2025-03-10 06:05:00"),
			PunchOut: model.ParseTimestamp("2025-03-10 18:00:00"),
			Status:   model.StatusPunchOut,
		},
		2: {
			Date:    "2025-03-10",
			PunchIn: model.ParseTimestamp("2025-03-10 06:10:00"),
			Status:  model.StatusPunchIn,
		},
	}

	rows := employeeDetailRows(employees, recs)

	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].EmployeeID)
	assert.Equal(t, "Driver", rows[0].Role)
	require.NotNil(t, rows[0].ShiftStartTime)
	assert.Equal(t, "06:00", *rows[0].ShiftStartTime)
	assert.Equal(t, "2025-03-10 06:05:00", rows[0].PunchIn)
	assert.Equal(t, "2025-03-10 18:00:00", rows[0].PunchOut)
	assert.Equal(t, string(model.StatusPunchOut), rows[0].Status)

	// no category: role and shift window stay empty
	assert.Equal(t, int64(2), rows[1].EmployeeID)
	assert.Equal(t, "", rows[1].Role)
	assert.Nil(t, rows[1].ShiftStartTime)
	assert.Equal(t, "", rows[1].PunchOut)
	assert.Equal(t, string(model.StatusPunchIn), rows[1].Status)
}

func TestEmployeeDetailRowsEmpty(t *testing.T) {
	rows := employeeDetailRows(nil, nil)
	assert.Empty(t, rows)
}
