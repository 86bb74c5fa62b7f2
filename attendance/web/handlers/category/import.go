package category

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"rakshak.com/rakshak/attendance/model"
	web "rakshak.com/rakshak/web/common"
)

type RowFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// parseCategoryRows validates the data rows of a category sheet.
// Columns: name, description, shift start, shift end. existing holds
// lowercased names already in the database; names repeated within the
// file fail the later occurrence.
func parseCategoryRows(rows [][]string, existing map[string]bool) ([]model.Category, []RowFailure) {
	var categories []model.Category
	var failures []RowFailure

	seen := map[string]bool{}
	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	for i, row := range rows {
		rowNo := i + 2

		name := cell(row, 0)
		if name == "" {
			failures = append(failures, RowFailure{Row: rowNo, Reason: "name is required"})
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			failures = append(failures, RowFailure{Row: rowNo, Reason: fmt.Sprintf("duplicate category %q in file", name)})
			continue
		}
		if existing[key] {
			failures = append(failures, RowFailure{Row: rowNo, Reason: fmt.Sprintf("category %q already exists", name)})
			continue
		}

		cat := model.Category{Name: name}
		if desc := cell(row, 1); desc != "" {
			cat.Description = &desc
		}

		badShift := ""
		for _, field := range []struct {
			value string
			dst   **string
		}{
			{cell(row, 2), &cat.ShiftStartTime},
			{cell(row, 3), &cat.ShiftEndTime},
		} {
			if field.value == "" {
				continue
			}
			if _, err := time.Parse("15:04", field.value); err != nil {
				badShift = field.value
				break
			}
			v := field.value
			*field.dst = &v
		}
		if badShift != "" {
			failures = append(failures, RowFailure{Row: rowNo, Reason: fmt.Sprintf("invalid shift time %q", badShift)})
			continue
		}

		seen[key] = true
		categories = append(categories, cat)
	}

	return categories, failures
}

// Import bulk-loads categories from an Excel sheet. Valid rows are
// created in one batch; invalid rows are reported back with their row
// number and reason, and never block the rest of the file.
func (ep *Endpoint) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Missing file"))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Failed to open file"))
		return
	}
	defer src.Close()

	wb, err := excelize.OpenReader(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid Excel file"))
		return
	}
	defer wb.Close()

	rows, err := wb.GetRows(wb.GetSheetName(0))
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Failed to read sheet"))
		return
	}
	if len(rows) < 2 {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Sheet has no data rows"))
		return
	}

	var categories []model.Category
	var failures []RowFailure
	err = ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var current []model.Category
		if err := db.Find(&current).Error; err != nil {
			return err
		}
		existing := make(map[string]bool, len(current))
		for _, cat := range current {
			existing[strings.ToLower(cat.Name)] = true
		}

		categories, failures = parseCategoryRows(rows[1:], existing)
		if len(categories) == 0 {
			return nil
		}
		return db.Create(&categories).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	if len(categories) > 0 {
		ep.cache.Invalidate()
	}

	if failures == nil {
		failures = []RowFailure{}
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{
		"imported": len(categories),
		"failed":   len(failures),
		"failures": failures,
	}))
}
