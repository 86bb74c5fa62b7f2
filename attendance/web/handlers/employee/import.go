package employee

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rakshak.com/rakshak/attendance/model"
	web "rakshak.com/rakshak/web/common"
)

// Import bulk-loads the employee roster from the operator's Excel
// export. Columns: system id, name, phone number, category name. Rows
// upsert on phone number; unknown category names fail the whole file.
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

	var imported int
	err = ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var categories []model.Category
		if err := db.Find(&categories).Error; err != nil {
			return err
		}
		categoryByName := make(map[string]int64, len(categories))
		for _, cat := range categories {
			categoryByName[strings.ToLower(cat.Name)] = cat.ID
		}

		var employees []model.Employee
		for i, row := range rows[1:] {
			if len(row) < 3 {
				continue
			}
			emp := model.Employee{
				EmployeeSystemID: strings.TrimSpace(row[0]),
				Name:             strings.TrimSpace(row[1]),
				PhoneNumber:      strings.TrimSpace(row[2]),
			}
			if emp.Name == "" || emp.PhoneNumber == "" {
				continue
			}
			if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
				categoryID, ok := categoryByName[strings.ToLower(strings.TrimSpace(row[3]))]
				if !ok {
					return fmt.Errorf("row %d: unknown category %q", i+2, row[3])
				}
				emp.CategoryID = &categoryID
			}
			employees = append(employees, emp)
		}

		if len(employees) == 0 {
			return nil
		}

		imported = len(employees)
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone_number"}},
			UpdateAll: true,
		}).Create(&employees).Error
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{"imported": imported}))
}
