package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/FlowDomain/NutriLog/services"
	"github.com/FlowDomain/NutriLog/utils"
	"github.com/gin-gonic/gin"
)

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// requireUser writes 401 and returns false when the request carries no user.
func requireUser(c *gin.Context) (uint, bool) {
	uid, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return uid, ok
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrMacroTargetsSum):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrFoodNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the {"error": ...} envelope. Internal errors are logged
// and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch {
	case errors.Is(err, services.ErrFoodNotFound):
		msg = "Some foods not found"
	case errors.Is(err, services.ErrMacroTargetsSum):
		msg = "Macro targets must sum to 100%"
	case status == http.StatusInternalServerError:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

// optionalDate parses a YYYY-MM-DD (or RFC 3339) query parameter in local
// time. A missing parameter yields the zero time.
func optionalDate(c *gin.Context, key string) (time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, true
	}
	t, err := utils.ParseDay(v, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return time.Time{}, false
	}
	return t, true
}
