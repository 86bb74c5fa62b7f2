package punch

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/utils"
	web "rakshak.com/rakshak/web/common"
)

// Report returns the daily attendance summary bucketed by role, one
// entry per employee with a row per date in range. Defaults to today.
func (ep *Endpoint) Report(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" {
		startDate = utils.ISTNow().Format("2006-01-02")
	}
	if endDate == "" {
		endDate = startDate
	}
	if _, err := time.Parse("2006-01-02", startDate); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid startDate"))
		return
	}
	if _, err := time.Parse("2006-01-02", endDate); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid endDate"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var employees []model.Employee
	if err := db.Order("id").Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	var events []model.PunchEvent
	if err := db.Where("date BETWEEN ? AND ?", startDate, endDate).
		Order("id").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	var ambulances []model.Ambulance
	if err := db.Unscoped().Find(&ambulances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	ambulanceNumbers := make(map[int64]string, len(ambulances))
	for _, amb := range ambulances {
		ambulanceNumbers[amb.ID] = amb.AmbulanceNumber
	}

	eventsByEmployee := make(map[int64]map[string][]model.PunchEvent)
	for _, empEvents := range utils.GroupBy(events, func(e model.PunchEvent) int64 { return e.EmployeeID }) {
		byDate := utils.GroupBy(empEvents, func(e model.PunchEvent) string { return e.Date })
		eventsByEmployee[empEvents[0].EmployeeID] = byDate
	}

	report, err := ep.reporter.BuildReport(c.Request.Context(), employees, eventsByEmployee, ambulanceNumbers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(report))
}
