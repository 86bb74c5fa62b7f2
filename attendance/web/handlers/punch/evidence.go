package punch

import (
	"bytes"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	web "rakshak.com/rakshak/web/common"
)

// validEvidenceKey rejects anything that could escape the storage
// namespace. Keys are always uuid-based names generated at upload.
func validEvidenceKey(key string) bool {
	if key == "" {
		return false
	}
	return !strings.ContainsAny(key, `/\`) && !strings.Contains(key, "..")
}

// Evidence streams a stored punch image back to the caller.
func (ep *Endpoint) Evidence(c *gin.Context) {
	key := c.Param("key")
	if !validEvidenceKey(key) {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid key"))
		return
	}

	var buf bytes.Buffer
	if err := ep.storage.Open(c.Request.Context(), key, &buf); err != nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Evidence not found"))
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Data(http.StatusOK, contentType, buf.Bytes())
}
