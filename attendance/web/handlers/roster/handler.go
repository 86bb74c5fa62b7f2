package roster

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	common "rakshak.com/rakshak/attendance/web/common"
	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/core"
	"rakshak.com/rakshak/utils"
	web "rakshak.com/rakshak/web/common"
)

type Endpoint struct {
	base common.Handler
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}
	r.GET("/rosters", endpoint.List)
	r.POST("/rosters/import", endpoint.Import)
}

type RosterDTO struct {
	ID         int64           `json:"id"`
	RosterDate web.DateOnly    `json:"rosterDate"`
	Shift      string          `json:"shift"`
	Ambulance  *model.Ambulance `json:"ambulance,omitempty"`
	Manager    *model.Employee  `json:"manager,omitempty"`
	Emt        *model.Employee  `json:"emt,omitempty"`
	Driver     *model.Employee  `json:"driver,omitempty"`
}

// List returns roster assignments for a date, optionally narrowed to a
// shift or ambulance.
func (ep *Endpoint) List(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Missing date"))
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid date"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Preload("Ambulance").Preload("Manager").Preload("Emt").Preload("Driver").
		Where("roster_date = ?", date)
	if shift := c.Query("shift"); shift != "" {
		query = query.Where("shift = ?", shift)
	}
	if ambulanceID := c.Query("ambulanceId"); ambulanceID != "" {
		query = query.Where("ambulance_id = ?", ambulanceID)
	}

	var rosters []model.Roster
	if err := query.Order("id").Find(&rosters).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	dtos := utils.Map(rosters, func(r model.Roster) RosterDTO {
		return RosterDTO{
			ID:         r.ID,
			RosterDate: web.DateOnly{Time: r.RosterDate},
			Shift:      r.Shift,
			Ambulance:  r.Ambulance,
			Manager:    r.Manager,
			Emt:        r.Emt,
			Driver:     r.Driver,
		}
	})

	c.JSON(http.StatusOK, web.NewSuccessResponse(dtos))
}

// Import bulk-loads roster assignments from the scheduling team's
// Excel sheet. Columns: date, shift, ambulance number, driver phone,
// EMT phone, manager phone. Rows upsert on (date, shift, ambulance).
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
		var ambulances []model.Ambulance
		if err := db.Find(&ambulances).Error; err != nil {
			return err
		}
		ambulanceByNumber := make(map[string]int64, len(ambulances))
		for _, amb := range ambulances {
			ambulanceByNumber[strings.ToUpper(amb.AmbulanceNumber)] = amb.ID
		}

		var employees []model.Employee
		if err := db.Find(&employees).Error; err != nil {
			return err
		}
		employeeByPhone := make(map[string]int64, len(employees))
		for _, emp := range employees {
			employeeByPhone[emp.PhoneNumber] = emp.ID
		}

		lookupEmployee := func(phone string) *int64 {
			phone = strings.TrimSpace(phone)
			if phone == "" {
				return nil
			}
			if id, ok := employeeByPhone[phone]; ok {
				return &id
			}
			return nil
		}

		var rosters []model.Roster
		for i, row := range rows[1:] {
			if len(row) < 3 {
				continue
			}
			date, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
			if err != nil {
				return fmt.Errorf("row %d: invalid date %q", i+2, row[0])
			}
			ambulanceID, ok := ambulanceByNumber[strings.ToUpper(strings.TrimSpace(row[2]))]
			if !ok {
				return fmt.Errorf("row %d: unknown ambulance %q", i+2, row[2])
			}

			roster := model.Roster{
				RosterDate:  date,
				Shift:       strings.TrimSpace(row[1]),
				AmbulanceID: &ambulanceID,
			}
			if len(row) > 3 {
				roster.DriverID = lookupEmployee(row[3])
			}
			if len(row) > 4 {
				roster.EmtID = lookupEmployee(row[4])
			}
			if len(row) > 5 {
				roster.ManagerID = lookupEmployee(row[5])
			}
			rosters = append(rosters, roster)
		}

		if len(rosters) == 0 {
			return nil
		}

		imported = len(rosters)
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "roster_date"}, {Name: "shift"}, {Name: "ambulance_id"}},
			UpdateAll: true,
		}).Create(&rosters).Error
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{"imported": imported}))
}
