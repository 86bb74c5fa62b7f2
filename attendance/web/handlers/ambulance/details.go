package ambulance

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	attendance "rakshak.com/rakshak/attendance/core"
	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/utils"
	web "rakshak.com/rakshak/web/common"
)

type EmployeeDetailDTO struct {
	EmployeeID     int64   `json:"employeeId"`
	Name           string  `json:"name"`
	PhoneNumber    string  `json:"phoneNumber"`
	Role           string  `json:"role"`
	ShiftStartTime *string `json:"shiftStartTime"`
	ShiftEndTime   *string `json:"shiftEndTime"`
	PunchIn        string  `json:"punchIn"`
	PunchOut       string  `json:"punchOut"`
	Status         string  `json:"status"`
}

// employeeDetailRows joins each employee's daily record with their
// category's role name and rostered shift window. Employees without a
// record for the day are skipped; input order is preserved.
func employeeDetailRows(employees []model.Employee, recs map[int64]attendance.DailyRecord) []EmployeeDetailDTO {
	rows := []EmployeeDetailDTO{}
	for _, emp := range employees {
		rec, ok := recs[emp.ID]
		if !ok {
			continue
		}

		row := EmployeeDetailDTO{
			EmployeeID:  emp.ID,
			Name:        emp.Name,
			PhoneNumber: emp.PhoneNumber,
			PunchIn:     rec.PunchIn.String(),
			PunchOut:    rec.PunchOut.String(),
			Status:      string(rec.Status),
		}
		if emp.Category != nil {
			row.Role = emp.Category.Name
			row.ShiftStartTime = emp.Category.ShiftStartTime
			row.ShiftEndTime = emp.Category.ShiftEndTime
		}
		rows = append(rows, row)
	}
	return rows
}

// EmployeeDetails returns the crew that punched on the ambulance for a
// date, each with role, category shift window and punch summary. The
// MDT app shows this as the on-board crew list.
func (ep *Endpoint) EmployeeDetails(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid id"))
		return
	}

	date := c.Query("date")
	if date == "" {
		date = utils.ISTNow().Format("2006-01-02")
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var amb model.Ambulance
	if err := db.First(&amb, id).Error; err != nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Ambulance not found"))
		return
	}

	var events []model.PunchEvent
	if err := db.Where("ambulance_id = ? AND date = ?", id, date).
		Order("id").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	recs := map[int64]attendance.DailyRecord{}
	for employeeID, empEvents := range utils.GroupBy(events, func(e model.PunchEvent) int64 { return e.EmployeeID }) {
		if rec, ok := attendance.Aggregate(empEvents); ok {
			recs[employeeID] = rec
		}
	}

	var employees []model.Employee
	if len(recs) > 0 {
		ids := make([]int64, 0, len(recs))
		for employeeID := range recs {
			ids = append(ids, employeeID)
		}
		if err := db.Preload("Category").Where("id IN ?", ids).
			Order("id").Find(&employees).Error; err != nil {
			c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
			return
		}
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{
		"ambulance": amb,
		"employees": employeeDetailRows(employees, recs),
	}))
}
