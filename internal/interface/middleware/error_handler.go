package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourplaces/backend/pkg/apperr"
)

// CtxUploadedFileKey records the path of a file stored for the current
// request before its database row exists. The error translator removes it
// when the request fails.
const CtxUploadedFileKey = "uploadedFile"

// FileRemover releases a stored upload. Satisfied by upload.Store.
type FileRemover interface {
	Remove(path string) error
}

// ErrorHandler is the single place where domain failures become HTTP
// responses: it removes uploads orphaned by the failure and writes the
// `{"message": ...}` envelope with the status the error carries. Internal
// error detail is logged, never sent to the client.
func ErrorHandler(files FileRemover, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		ae := apperr.From(c.Errors.Last().Err)

		if path := c.GetString(CtxUploadedFileKey); path != "" {
			if err := files.Remove(path); err != nil {
				logger.WithError(err).WithField("path", path).Warn("failed to remove orphaned upload")
			}
		}

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
			"status":     ae.Status,
		})
		if ae.Err != nil {
			entry = entry.WithError(ae.Err)
		}
		if ae.Status >= 500 {
			entry.Error(ae.Message)
		} else {
			entry.Debug(ae.Message)
		}

		if !c.Writer.Written() {
			body := gin.H{"message": ae.Message}
			if len(ae.Details) > 0 {
				body["details"] = ae.Details
			}
			c.JSON(ae.Status, body)
		}
	}
}
