package punch

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attendance "rakshak.com/rakshak/attendance/core"
	common "rakshak.com/rakshak/attendance/web/common"
	"rakshak.com/rakshak/attendance/model"
	web "rakshak.com/rakshak/web/common"
)

type SubmitAttendanceDTO struct {
	EmployeeID    int64  `form:"employeeId" json:"employeeId"`
	AmbulanceID   *int64 `form:"ambulanceId" json:"ambulanceId"`
	ShiftType     string `form:"shiftType" json:"shiftType"`
	Status        string `form:"status" json:"status"`
	PunchTime     string `form:"punchTime" json:"punchTime"`
	PunchLocation string `form:"punchLocation" json:"punchLocation"`
	Date          string `form:"date" json:"date"`
	DeviceMode    string `form:"deviceMode" json:"deviceMode"`
}

// Submit records a manual punch. Devices post multipart form data with
// an optional evidence image; the admin console posts plain JSON.
func (ep *Endpoint) Submit(c *gin.Context) {
	var dto SubmitAttendanceDTO
	if err := c.ShouldBind(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	imageKey := ""
	if file, err := c.FormFile("imageCapture"); err == nil && file != nil {
		imageKey = fmt.Sprintf("punch-%s%s", uuid.NewString(), filepath.Ext(file.Filename))

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("failed to read image"))
			return
		}
		defer src.Close()

		if _, err := ep.storage.Save(c.Request.Context(), imageKey, src); err != nil {
			c.JSON(http.StatusInternalServerError, web.NewErrorResponse("failed to store image"))
			return
		}
	}

	req := attendance.SubmitRequest{
		EmployeeID:    dto.EmployeeID,
		AmbulanceID:   dto.AmbulanceID,
		ShiftType:     dto.ShiftType,
		Status:        model.PunchStatus(dto.Status),
		PunchTime:     model.ParseTimestamp(dto.PunchTime),
		PunchLocation: dto.PunchLocation,
		Date:          dto.Date,
		DeviceMode:    dto.DeviceMode,
		ImageCapture:  imageKey,
	}

	var result *attendance.SubmitResult
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var submitErr error
		result, submitErr = ep.enforcer.SubmitPunch(c.Request.Context(), attendance.NewGormStore(db), req)
		return submitErr
	})
	if err != nil {
		common.WriteDomainError(c, err)
		return
	}

	if result.AutoClosed != nil && ep.notifier != nil {
		go ep.notifier.Info(result.Message)
	}

	c.JSON(http.StatusOK, web.NewMessageResponse(result.Message, result.Records))
}

// ListByEmployee returns the raw punch log for one employee, newest
// first. Supports the device's "my attendance" screen.
func (ep *Endpoint) ListByEmployee(c *gin.Context) {
	employeeID := c.Param("employeeId")

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Where("employee_id = ?", employeeID)
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	var events []model.PunchEvent
	if err := query.Order("punch_time DESC, id DESC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(events))
}
