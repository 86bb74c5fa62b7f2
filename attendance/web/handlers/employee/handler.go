package employee

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
	r.GET("/employees", endpoint.Search)
	r.GET("/employees/:id", endpoint.Get)
	r.POST("/employees", endpoint.Create)
	r.PUT("/employees/:id", endpoint.Update)
	r.DELETE("/employees/:id", endpoint.Delete)
	r.POST("/employees/import", endpoint.Import)
}

type EmployeeDTO struct {
	EmployeeSystemID string  `json:"employeeSystemId"`
	Name             string  `json:"name" binding:"required"`
	PhoneNumber      string  `json:"phoneNumber" binding:"required"`
	CategoryID       *int64  `json:"categoryId"`
	FaceImageData    *string `json:"faceImageData"`
}

func (ep *Endpoint) Search(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Model(&model.Employee{}).Preload("Category")
	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR phone_number LIKE ? OR employee_system_id LIKE ?", like, like, like)
	}
	if categoryID := c.Query("categoryId"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var employees []model.Employee
	if err := query.Order("id").Limit(limit).Offset(offset).Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSearchResponse(employees, total))
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

	var emp model.Employee
	if err := db.Preload("Category").First(&emp, id).Error; err != nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Employee not found"))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(emp))
}

// duplicateMessage reports which unique field an existing employee
// already claims, or "" when there is no clash. The phone check wins
// when both fields collide.
func duplicateMessage(existing []model.Employee, phone, systemID string) string {
	for _, emp := range existing {
		if emp.PhoneNumber == phone {
			return "Phone number is already registered"
		}
	}
	for _, emp := range existing {
		if systemID != "" && emp.EmployeeSystemID == systemID {
			return "Employee system id is already registered"
		}
	}
	return ""
}

func (ep *Endpoint) Create(c *gin.Context) {
	var dto EmployeeDTO
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

	var existing []model.Employee
	if err := db.Where("phone_number = ? OR (employee_system_id <> '' AND employee_system_id = ?)",
		dto.PhoneNumber, dto.EmployeeSystemID).Find(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	if msg := duplicateMessage(existing, dto.PhoneNumber, dto.EmployeeSystemID); msg != "" {
		c.JSON(http.StatusConflict, web.NewErrorResponse(msg))
		return
	}

	emp := model.Employee{
		EmployeeSystemID: dto.EmployeeSystemID,
		Name:             dto.Name,
		PhoneNumber:      dto.PhoneNumber,
		CategoryID:       dto.CategoryID,
		FaceImageData:    dto.FaceImageData,
	}
	if err := db.Create(&emp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(emp))
}

func (ep *Endpoint) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid id"))
		return
	}

	var dto EmployeeDTO
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

	updates := map[string]interface{}{
		"employee_system_id": dto.EmployeeSystemID,
		"name":               dto.Name,
		"phone_number":       dto.PhoneNumber,
		"category_id":        dto.CategoryID,
	}
	if dto.FaceImageData != nil {
		updates["face_image_data"] = dto.FaceImageData
	}

	result := db.Model(&model.Employee{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Employee not found"))
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

	result := db.Delete(&model.Employee{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Employee not found"))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}
