package category

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	attendance "rakshak.com/rakshak/attendance/core"
	common "rakshak.com/rakshak/attendance/web/common"
	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/core"
	web "rakshak.com/rakshak/web/common"
)

type Endpoint struct {
	base  common.Handler
	cache *attendance.CategoryCache
}

// Register wires the category master endpoints. Mutations invalidate
// the report cache so role changes show up on the next report.
func Register(r *gin.RouterGroup, dm *core.DatabaseManager, cache *attendance.CategoryCache) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}, cache: cache}
	r.GET("/categories", endpoint.List)
	r.POST("/categories", endpoint.Create)
	r.PUT("/categories/:id", endpoint.Update)
	r.DELETE("/categories/:id", endpoint.Delete)
	r.POST("/categories/import", endpoint.Import)
}

type CategoryDTO struct {
	Name           string  `json:"name" binding:"required"`
	Description    *string `json:"description"`
	ShiftStartTime *string `json:"shiftStartTime"`
	ShiftEndTime   *string `json:"shiftEndTime"`
}

func (ep *Endpoint) List(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var categories []model.Category
	if err := db.Order("id").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(categories))
}

func (ep *Endpoint) Create(c *gin.Context) {
	var dto CategoryDTO
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

	cat := model.Category{
		Name:           dto.Name,
		Description:    dto.Description,
		ShiftStartTime: dto.ShiftStartTime,
		ShiftEndTime:   dto.ShiftEndTime,
	}
	if err := db.Create(&cat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	ep.cache.Invalidate()
	c.JSON(http.StatusOK, web.NewSuccessResponse(cat))
}

func (ep *Endpoint) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid id"))
		return
	}

	var dto CategoryDTO
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

	result := db.Model(&model.Category{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":             dto.Name,
		"description":      dto.Description,
		"shift_start_time": dto.ShiftStartTime,
		"shift_end_time":   dto.ShiftEndTime,
	})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Category not found"))
		return
	}

	ep.cache.Invalidate()
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

	result := db.Delete(&model.Category{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Category not found"))
		return
	}

	ep.cache.Invalidate()
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}
