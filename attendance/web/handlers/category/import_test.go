package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategoryRows(t *testing.T) {
	rows := [][]string{
		{"Driver", "Ambulance driver", "06:00", "18:00"},
		{"EMT", "", "06:00", "18:00"},
		{"Manager"},
	}

	categories, failures := parseCategoryRows(rows, nil)

	require.Len(t, categories, 3)
	assert.Empty(t, failures)

	assert.Equal(t, "Driver", categories[0].Name)
	require.NotNil(t, categories[0].Description)
	assert.Equal(t, "Ambulance driver", *categories[0].Description)
	require.NotNil(t, categories[0].ShiftStartTime)
	assert.Equal(t, "06:00", *categories[0].ShiftStartTime)
	require.NotNil(t, categories[0].ShiftEndTime)
	assert.Equal(t, "18:00", *categories[0].ShiftEndTime)

	assert.Nil(t, categories[1].Description)
	assert.Nil(t, categories[2].ShiftStartTime)
}

func TestParseCategoryRowsFailures(t *testing.T) {
	rows := [][]string{
		{"", "missing name"},
		{"Driver", "", "6 am", "18:00"},
		{"Driver", "", "06:00", "18:00"},
		{"driver", "repeated in file"},
		{"EMT", "exists in db"},
	}
	existing := map[string]bool{"emt": true}

	categories, failures := parseCategoryRows(rows, existing)

	require.Len(t, categories, 1)
	assert.Equal(t, "Driver", categories[0].Name)

	require.Len(t, failures, 4)
	// row numbers are 1-based and skip the header row
	assert.Equal(t, 2, failures[0].Row)
	assert.Contains(t, failures[0].Reason, "name is required")
	assert.Equal(t, 3, failures[1].Row)
	assert.Contains(t, failures[1].Reason, "invalid shift time")
	assert.Equal(t, 5, failures[2].Row)
	assert.Contains(t, failures[2].Reason, "duplicate")
	assert.Equal(t, 6, failures[3].Row)
	assert.Contains(t, failures[3].Reason, "already exists")
}
