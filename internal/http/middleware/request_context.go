package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/moodly-backend/internal/http/response"
	"github.com/yungbote/moodly-backend/internal/platform/ctxutil"
)

const headerTimezone = "X-Timezone"

// AttachRequestContext resolves the caller's time zone from the tz query
// parameter, then the X-Timezone header, then defaultLoc. An unknown zone
// name is rejected with 400.
func AttachRequestContext(defaultLoc *time.Location) gin.HandlerFunc {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.Query("tz"))
		if name == "" {
			name = strings.TrimSpace(c.GetHeader(headerTimezone))
		}
		loc := defaultLoc
		if name != "" {
			parsed, err := time.LoadLocation(name)
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_timezone", fmt.Errorf("unknown time zone %q", name))
				c.Abort()
				return
			}
			loc = parsed
		}
		c.Request = c.Request.WithContext(ctxutil.WithLocation(c.Request.Context(), loc))
		c.Next()
	}
}
