package fuel

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	common "rakshak.com/rakshak/attendance/web/common"
	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/core"
	"rakshak.com/rakshak/infrastructure/filesystem"
	web "rakshak.com/rakshak/web/common"
)

type Endpoint struct {
	base    common.Handler
	storage filesystem.Storage
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager, storage filesystem.Storage) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}, storage: storage}
	r.POST("/fuel-logs", endpoint.Create)
	r.GET("/fuel-logs", endpoint.List)
}

type FuelLogDTO struct {
	AmbulanceID                int64  `form:"ambulanceId" binding:"required"`
	FuelType                   string `form:"fuelType" binding:"required"`
	SoftwareReadingLitres      string `form:"softwareReadingLitres"`
	SoftwareReadingUnitPrice   string `form:"softwareReadingUnitPrice"`
	SoftwareReadingTotalAmount string `form:"softwareReadingTotalAmount"`
	ManualReadingLitres        string `form:"manualReadingLitres"`
	ManualReadingUnitPrice     string `form:"manualReadingUnitPrice"`
	ManualReadingTotalAmount   string `form:"manualReadingTotalAmount"`
	FuelDateTime               string `form:"fuelDateTime"`
	Location                   string `form:"location"`
	Latitude                   string `form:"latitude"`
	Longitude                  string `form:"longitude"`
}

// Create records a refuelling with its invoice photo. The crew keys in
// the pump reading manually alongside the software reading so the two
// can be reconciled later.
func (ep *Endpoint) Create(c *gin.Context) {
	var dto FuelLogDTO
	if err := c.ShouldBind(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	file, err := c.FormFile("invoice")
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Missing invoice file"))
		return
	}

	key := fmt.Sprintf("fuel-%s%s", uuid.NewString(), filepath.Ext(file.Filename))
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Failed to read invoice"))
		return
	}
	defer src.Close()

	url, err := ep.storage.Save(c.Request.Context(), key, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse("Failed to store invoice"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	log := model.FuelLog{
		AmbulanceID:                dto.AmbulanceID,
		InvoiceFileURL:             url,
		FuelType:                   dto.FuelType,
		SoftwareReadingLitres:      dto.SoftwareReadingLitres,
		SoftwareReadingUnitPrice:   dto.SoftwareReadingUnitPrice,
		SoftwareReadingTotalAmount: dto.SoftwareReadingTotalAmount,
		ManualReadingLitres:        dto.ManualReadingLitres,
		ManualReadingUnitPrice:     dto.ManualReadingUnitPrice,
		ManualReadingTotalAmount:   dto.ManualReadingTotalAmount,
		FuelDateTime:               model.ParseTimestamp(dto.FuelDateTime),
		Location:                   dto.Location,
		Latitude:                   dto.Latitude,
		Longitude:                  dto.Longitude,
	}
	if err := db.Create(&log).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(log))
}

func (ep *Endpoint) List(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Model(&model.FuelLog{})
	if ambulanceID := c.Query("ambulanceId"); ambulanceID != "" {
		query = query.Where("ambulance_id = ?", ambulanceID)
	}

	var logs []model.FuelLog
	if err := query.Order("id DESC").Limit(200).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(logs))
}
