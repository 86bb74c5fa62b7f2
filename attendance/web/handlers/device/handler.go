package device

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	common "rakshak.com/rakshak/attendance/web/common"
	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/core"
	"rakshak.com/rakshak/security"
	"rakshak.com/rakshak/utils"
	web "rakshak.com/rakshak/web/common"
	"rakshak.com/rakshak/web/middlewares"
)

type Endpoint struct {
	base            common.Handler
	jwtSecret       string
	tokenTTLSeconds int64
}

// RegisterPublic wires the unauthenticated login route.
func RegisterPublic(r *gin.RouterGroup, dm *core.DatabaseManager, jwtSecret string, tokenTTLSeconds int64) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}, jwtSecret: jwtSecret, tokenTTLSeconds: tokenTTLSeconds}
	r.POST("/devices/login", endpoint.Login)
}

// Register wires the authenticated device routes.
func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}
	r.GET("/devices/app-version", endpoint.AppVersion)
	r.GET("/devices/login-records", endpoint.LoginRecords)
	r.GET("/devices/credentials", endpoint.Credentials)
	r.POST("/devices", endpoint.Create)
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func passwordMatches(stored, supplied string) bool {
	hashed := hashPassword(supplied)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(hashed)) == 1
}

type LoginDTO struct {
	Username   string  `json:"username" binding:"required"`
	Password   string  `json:"password" binding:"required"`
	IMEI       string  `json:"imei"`
	AppVersion *string `json:"appVersion"`
}

// Login authenticates an MDT tablet and issues its bearer token. The
// device reports its IMEI and app version on every login; both are
// recorded for the audit trail.
func (ep *Endpoint) Login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	var device model.AmbulanceDevice
	var token string
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		if err := db.Preload("Ambulance").
			Where("username = ?", dto.Username).
			First(&device).Error; err != nil {
			return err
		}
		if !passwordMatches(device.Password, dto.Password) {
			return gorm.ErrRecordNotFound
		}

		now := utils.ISTNow()
		updates := map[string]interface{}{
			"device_login_at": now,
		}
		if dto.IMEI != "" {
			updates["imei"] = dto.IMEI
		}
		if dto.AppVersion != nil {
			updates["current_app_version"] = dto.AppVersion
		}
		if err := db.Model(&device).Updates(updates).Error; err != nil {
			return err
		}

		record := model.DeviceLoginRecord{
			DeviceID:   device.ID,
			Username:   device.Username,
			IMEI:       dto.IMEI,
			AppVersion: dto.AppVersion,
			IPAddress:  c.ClientIP(),
			LoginAt:    now,
		}
		return db.Create(&record).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, web.NewErrorResponse("Invalid username or password"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	identity := &security.DeviceIdentity{
		Id:       device.ID,
		Username: device.Username,
		IMEI:     dto.IMEI,
	}
	if device.Ambulance != nil {
		identity.AmbulanceNumber = device.Ambulance.AmbulanceNumber
	}

	token, err = security.CreateDeviceToken(identity, ep.jwtSecret, ep.tokenTTLSeconds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse("Failed to issue token"))
		return
	}

	updateAvailable := device.LatestAppVersion != nil && dto.AppVersion != nil &&
		*device.LatestAppVersion != *dto.AppVersion

	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{
		"token":           token,
		"device":          device,
		"updateAvailable": updateAvailable,
	}))
}

// AppVersion tells the logged-in device which app build it should be
// running.
func (ep *Endpoint) AppVersion(c *gin.Context) {
	deviceID, ok := c.Get(middlewares.DeviceIDKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, web.NewErrorResponse("Unknown device"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var device model.AmbulanceDevice
	if err := db.First(&device, deviceID).Error; err != nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Device not found"))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{
		"currentAppVersion": device.CurrentAppVersion,
		"latestAppVersion":  device.LatestAppVersion,
	}))
}

// Credentials lists every device account with its ambulance, for the
// provisioning console. Passwords are stored hashed and never leave
// the server; resetting one goes through device enrolment.
func (ep *Endpoint) Credentials(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var devices []model.AmbulanceDevice
	if err := db.Preload("Ambulance").Order("username").Find(&devices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(devices))
}

// LoginRecords lists the audit trail, newest first.
func (ep *Endpoint) LoginRecords(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Model(&model.DeviceLoginRecord{})
	if deviceID := c.Query("deviceId"); deviceID != "" {
		query = query.Where("device_id = ?", deviceID)
	}

	var records []model.DeviceLoginRecord
	if err := query.Order("login_at DESC").Limit(200).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(records))
}

type DeviceDTO struct {
	AmbulanceID     *int64  `json:"ambulanceId"`
	IMEI            string  `json:"imei" binding:"required"`
	Username        string  `json:"username" binding:"required"`
	Password        string  `json:"password" binding:"required,min=8"`
	Manufacturer    *string `json:"manufacturer"`
	DeviceModelName *string `json:"deviceModelName"`
}

// Create enrols a new device. The password is stored hashed.
func (ep *Endpoint) Create(c *gin.Context) {
	var dto DeviceDTO
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

	device := model.AmbulanceDevice{
		AmbulanceID:     dto.AmbulanceID,
		IMEI:            dto.IMEI,
		Username:        dto.Username,
		Password:        hashPassword(dto.Password),
		Manufacturer:    dto.Manufacturer,
		DeviceModelName: dto.DeviceModelName,
	}
	if err := db.Create(&device).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(device))
}
