package common

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	attendance "rakshak.com/rakshak/attendance/core"
	"rakshak.com/rakshak/core"
	web "rakshak.com/rakshak/web/common"
)

type Handler struct {
	Dm *core.DatabaseManager
}

func (h *Handler) GetDB(r *gin.Context) (*gorm.DB, *sql.Conn, error) {
	return h.Dm.GetDB(r.Request.Context())
}

// WriteDomainError maps the attendance error taxonomy onto HTTP status
// codes: validation 400, not found 404, conflict 409, everything else
// 500.
func WriteDomainError(c *gin.Context, err error) {
	var (
		validationErr  *attendance.ValidationError
		notFoundErr    *attendance.NotFoundError
		conflictErr    *attendance.ConflictError
		persistenceErr *attendance.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(validationErr.Error()))
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, web.NewErrorResponse(notFoundErr.Error()))
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, web.NewErrorResponse(conflictErr.Error()))
	case errors.As(err, &persistenceErr):
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse("failed to record attendance"))
	default:
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
	}
}
