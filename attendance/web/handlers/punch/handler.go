package punch

import (
	"github.com/gin-gonic/gin"

	attendance "rakshak.com/rakshak/attendance/core"
	common "rakshak.com/rakshak/attendance/web/common"
	"rakshak.com/rakshak/core"
	"rakshak.com/rakshak/infrastructure/communication"
	"rakshak.com/rakshak/infrastructure/filesystem"
)

type Endpoint struct {
	base     common.Handler
	enforcer *attendance.Enforcer
	reporter *attendance.Reporter
	storage  filesystem.Storage
	notifier *communication.Slack
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager, enforcer *attendance.Enforcer, reporter *attendance.Reporter, storage filesystem.Storage, notifier *communication.Slack) {
	endpoint := &Endpoint{
		base:     common.Handler{Dm: dm},
		enforcer: enforcer,
		reporter: reporter,
		storage:  storage,
		notifier: notifier,
	}
	r.POST("/attendances", endpoint.Submit)
	r.GET("/attendances/report", endpoint.Report)
	r.GET("/attendances/employees/:employeeId", endpoint.ListByEmployee)
	r.GET("/attendances/evidence/:key", endpoint.Evidence)
}
