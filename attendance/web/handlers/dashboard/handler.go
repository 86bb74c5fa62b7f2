package dashboard

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	attendance "rakshak.com/rakshak/attendance/core"
	common "rakshak.com/rakshak/attendance/web/common"
	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/core"
	"rakshak.com/rakshak/utils"
	web "rakshak.com/rakshak/web/common"
)

type Endpoint struct {
	base  common.Handler
	cache *attendance.CategoryCache
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager, cache *attendance.CategoryCache) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}, cache: cache}
	r.GET("/dashboard/active-ambulances", endpoint.ActiveAmbulances)
	r.GET("/dashboard/summary", endpoint.Summary)
}

type ActiveAmbulanceDTO struct {
	Ambulance model.Ambulance `json:"ambulance"`
	OnDuty    int             `json:"onDuty"`
}

// ActiveAmbulances lists ambulances with at least one crew member whose
// shift is currently open, with the on-duty head count.
func (ep *Endpoint) ActiveAmbulances(c *gin.Context) {
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

	var events []model.PunchEvent
	if err := db.Where("date = ?", date).Order("id").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	onDuty := map[int64]int{}
	for _, empEvents := range utils.GroupBy(events, func(e model.PunchEvent) int64 { return e.EmployeeID }) {
		rec, ok := attendance.Aggregate(empEvents)
		if !ok || rec.Status != model.StatusPunchIn || rec.AmbulanceID == nil {
			continue
		}
		onDuty[*rec.AmbulanceID]++
	}

	if len(onDuty) == 0 {
		c.JSON(http.StatusOK, web.NewSuccessResponse([]ActiveAmbulanceDTO{}))
		return
	}

	ids := make([]int64, 0, len(onDuty))
	for id := range onDuty {
		ids = append(ids, id)
	}

	var ambulances []model.Ambulance
	if err := db.Where("id IN ?", ids).Order("ambulance_number").Find(&ambulances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	dtos := utils.Map(ambulances, func(amb model.Ambulance) ActiveAmbulanceDTO {
		return ActiveAmbulanceDTO{Ambulance: amb, OnDuty: onDuty[amb.ID]}
	})

	c.JSON(http.StatusOK, web.NewSuccessResponse(dtos))
}

const (
	crewActive      = "active"
	crewDriversOnly = "driversOnly"
	crewEmtsOnly    = "emtsOnly"
	crewInactive    = "inactive"
)

type SummaryDTO struct {
	Active      []string       `json:"active"`
	DriversOnly []string       `json:"driversOnly"`
	EmtsOnly    []string       `json:"emtsOnly"`
	Inactive    []string       `json:"inactive"`
	Counts      map[string]int `json:"counts"`
}

// classifyCrew places an ambulance by which roles hold open shifts on
// it: both driver and EMT on board is active, one of the two is a
// partial crew, neither is inactive.
func classifyCrew(onDutyRoles map[string]int) string {
	hasDriver := onDutyRoles["driver"] > 0
	hasEmt := onDutyRoles["emt"] > 0
	switch {
	case hasDriver && hasEmt:
		return crewActive
	case hasDriver:
		return crewDriversOnly
	case hasEmt:
		return crewEmtsOnly
	default:
		return crewInactive
	}
}

// summarize buckets every ambulance by crew classification. Ambulance
// numbers come out in input order.
func summarize(ambulances []model.Ambulance, rolesByAmbulance map[int64]map[string]int) SummaryDTO {
	dto := SummaryDTO{
		Active:      []string{},
		DriversOnly: []string{},
		EmtsOnly:    []string{},
		Inactive:    []string{},
	}

	for _, amb := range ambulances {
		switch classifyCrew(rolesByAmbulance[amb.ID]) {
		case crewActive:
			dto.Active = append(dto.Active, amb.AmbulanceNumber)
		case crewDriversOnly:
			dto.DriversOnly = append(dto.DriversOnly, amb.AmbulanceNumber)
		case crewEmtsOnly:
			dto.EmtsOnly = append(dto.EmtsOnly, amb.AmbulanceNumber)
		default:
			dto.Inactive = append(dto.Inactive, amb.AmbulanceNumber)
		}
	}

	dto.Counts = map[string]int{
		crewActive:      len(dto.Active),
		crewDriversOnly: len(dto.DriversOnly),
		crewEmtsOnly:    len(dto.EmtsOnly),
		crewInactive:    len(dto.Inactive),
	}
	return dto
}

// Summary classifies the whole fleet for the control-room dashboard:
// fully crewed, drivers-only, EMTs-only and inactive ambulances, with
// counts per bucket.
func (ep *Endpoint) Summary(c *gin.Context) {
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

	var events []model.PunchEvent
	if err := db.Where("date = ?", date).Order("id").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	var employees []model.Employee
	if err := db.Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	categoryIDs := make(map[int64]*int64, len(employees))
	for _, emp := range employees {
		categoryIDs[emp.ID] = emp.CategoryID
	}

	rolesByAmbulance := map[int64]map[string]int{}
	for _, empEvents := range utils.GroupBy(events, func(e model.PunchEvent) int64 { return e.EmployeeID }) {
		rec, ok := attendance.Aggregate(empEvents)
		if !ok || rec.Status != model.StatusPunchIn || rec.AmbulanceID == nil {
			continue
		}

		role, err := ep.cache.Name(c.Request.Context(), categoryIDs[empEvents[0].EmployeeID])
		if err != nil {
			c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
			return
		}

		roles := rolesByAmbulance[*rec.AmbulanceID]
		if roles == nil {
			roles = map[string]int{}
			rolesByAmbulance[*rec.AmbulanceID] = roles
		}
		roles[strings.ToLower(role)]++
	}

	var ambulances []model.Ambulance
	if err := db.Order("ambulance_number").Find(&ambulances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(summarize(ambulances, rolesByAmbulance)))
}
