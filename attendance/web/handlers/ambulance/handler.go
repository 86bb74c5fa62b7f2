package ambulance

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	common "rakshak.com/rakshak/attendance/web/common"
	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/core"
	web "rakshak.com/rakshak/web/common"
)

type Endpoint struct {
	base common.Handler
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}
	r.GET("/ambulances", endpoint.Search)
	r.GET("/ambulances/:id", endpoint.Get)
	r.GET("/ambulances/:id/employees", endpoint.EmployeeDetails)
	r.POST("/ambulances", endpoint.Create)
	r.PUT("/ambulances/:id", endpoint.Update)
	r.DELETE("/ambulances/:id", endpoint.Delete)
}

type AmbulanceDTO struct {
	AmbulanceNumber string  `json:"ambulanceNumber" binding:"required"`
	Type            *string `json:"type"`
	CallSign        *string `json:"callSign"`
	Zone            *string `json:"zone"`
	Location        *string `json:"location"`
	MdtMobileNumber *string `json:"mdtMobileNumber"`
	IsSpare         bool    `json:"isSpareAmbulance"`
}

func (ep *Endpoint) Search(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Model(&model.Ambulance{})
	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("ambulance_number LIKE ? OR call_sign LIKE ?", like, like)
	}
	if zone := c.Query("zone"); zone != "" {
		query = query.Where("zone = ?", zone)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var ambulances []model.Ambulance
	if err := query.Order("ambulance_number").Limit(limit).Offset(offset).Find(&ambulances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSearchResponse(ambulances, total))
}

func (ep *Endpoint) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid id"))
		return
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

	c.JSON(http.StatusOK, web.NewSuccessResponse(amb))
}

func (ep *Endpoint) Create(c *gin.Context) {
	var dto AmbulanceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	amb := model.Ambulance{
		AmbulanceNumber: dto.AmbulanceNumber,
		Type:            dto.Type,
		CallSign:        dto.CallSign,
		Zone:            dto.Zone,
		Location:        dto.Location,
		MdtMobileNumber: dto.MdtMobileNumber,
		IsSpare:         dto.IsSpare,
	}
	if err := db.Create(&amb).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(amb))
}

func (ep *Endpoint) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid id"))
		return
	}

	var dto AmbulanceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	result := db.Model(&model.Ambulance{}).Where("id = ?", id).Updates(map[string]interface{}{
		"ambulance_number":  dto.AmbulanceNumber,
		"type":              dto.Type,
		"call_sign":         dto.CallSign,
		"zone":              dto.Zone,
		"location":          dto.Location,
		"mdt_mobile_number": dto.MdtMobileNumber,
		"is_spare":          dto.IsSpare,
	})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Ambulance not found"))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}

func (ep *Endpoint) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid id"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	result := db.Delete(&model.Ambulance{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Ambulance not found"))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}
