package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pawdispatch/middleware"
	"pawdispatch/models"
	"pawdispatch/services/dispatch"
	"pawdispatch/services/notification"
	"pawdispatch/utils"
)

// DispatchHandler exposes the provider dispatch engine over HTTP.
type DispatchHandler struct {
	Engine   *dispatch.Engine
	Notifier *notification.InboxNotifier
	Logger   *zap.Logger
}

func NewDispatchHandler(engine *dispatch.Engine, notifier *notification.InboxNotifier, logger *zap.Logger) *DispatchHandler {
	return &DispatchHandler{Engine: engine, Notifier: notifier, Logger: logger}
}

type openSessionRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// OpenSession starts a dispatch session for the authenticated provider.
func (h *DispatchHandler) OpenSession(c *gin.Context) {
	var input openSessionRequest
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	var loc *models.Coordinate
	if input.Latitude != nil && input.Longitude != nil {
		loc = &models.Coordinate{Latitude: *input.Latitude, Longitude: *input.Longitude}
	}

	session, err := h.Engine.OpenSession(c.Request.Context(), middleware.BearerToken(c), loc)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "failed to open dispatch session", err.Error())
		return
	}

	load := session.Load()
	c.JSON(http.StatusOK, gin.H{
		"sessionID": session.ID,
		"profile":   session.Profile(),
		"worklist":  h.Engine.Worklist(session),
		"load":      load,
		"error":     load.Message(),
	})
}

// CloseSession tears the session down.
func (h *DispatchHandler) CloseSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Engine.CloseSession(c.Request.Context(), sessionID); err != nil {
		utils.JSONError(c, http.StatusNotFound, "session not found", err.Error())
		return
	}
	h.Notifier.Forget(sessionID)
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// UpdateLocation records the provider's newest coordinate.
func (h *DispatchHandler) UpdateLocation(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var input struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	h.Engine.UpdateLocation(session, models.Coordinate{Latitude: input.Latitude, Longitude: input.Longitude})
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// Worklist returns the filtered, annotated booking view. Pass
// ?sort=distance for nearest-first ordering.
func (h *DispatchHandler) Worklist(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.SetSortByDistance(c.Query("sort") == "distance")
	load := session.Load()
	c.JSON(http.StatusOK, gin.H{
		"worklist": h.Engine.Worklist(session),
		"load":     load,
		"error":    load.Message(),
	})
}

// Accept runs the accept path for one booking.
func (h *DispatchHandler) Accept(c *gin.Context) {
	session, bookingID, ok := h.sessionAndBooking(c)
	if !ok {
		return
	}
	if err := h.Engine.Accept(c.Request.Context(), session, bookingID); err != nil {
		h.actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

// Reject cancels (or hides) one booking.
func (h *DispatchHandler) Reject(c *gin.Context) {
	session, bookingID, ok := h.sessionAndBooking(c)
	if !ok {
		return
	}
	if err := h.Engine.Reject(c.Request.Context(), session, bookingID); err != nil {
		h.actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

// Complete closes out a confirmed booking with the customer's OTP.
func (h *DispatchHandler) Complete(c *gin.Context) {
	session, bookingID, ok := h.sessionAndBooking(c)
	if !ok {
		return
	}

	var input struct {
		OTP string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Engine.Complete(c.Request.Context(), session, bookingID, input.OTP); err != nil {
		h.actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// Alerts returns the geofence alerts raised this session.
func (h *DispatchHandler) Alerts(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": session.Alerts()})
}

// Notifications drains the pending user-facing messages for a session.
func (h *DispatchHandler) Notifications(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	msgs := h.Notifier.Drain(session.ID)
	if msgs == nil {
		msgs = []notification.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": msgs})
}

// Refresh re-runs the initial load after a partial failure. Manual
// retries are capped.
func (h *DispatchHandler) Refresh(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.Engine.RetryLoad(c.Request.Context(), session); err != nil {
		utils.JSONError(c, http.StatusTooManyRequests, "retry limit reached", err.Error())
		return
	}
	load := session.Load()
	c.JSON(http.StatusOK, gin.H{
		"profile":  session.Profile(),
		"worklist": h.Engine.Worklist(session),
		"load":     load,
		"error":    load.Message(),
	})
}

func (h *DispatchHandler) session(c *gin.Context) (*dispatch.Session, bool) {
	session, ok := h.Engine.Session(c.Param("sessionID"))
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "session not found", c.Param("sessionID"))
		return nil, false
	}
	return session, true
}

func (h *DispatchHandler) sessionAndBooking(c *gin.Context) (*dispatch.Session, int64, bool) {
	session, ok := h.session(c)
	if !ok {
		return nil, 0, false
	}
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id", c.Param("id"))
		return nil, 0, false
	}
	return session, bookingID, true
}

// actionError maps the dispatch error taxonomy onto HTTP statuses.
func (h *DispatchHandler) actionError(c *gin.Context, err error) {
	actionErr := dispatch.NormalizeError(err)
	status := http.StatusBadRequest
	switch actionErr.Kind {
	case dispatch.KindEligibility:
		status = http.StatusUnprocessableEntity
	case dispatch.KindConflict:
		status = http.StatusConflict
	case dispatch.KindValidation:
		status = http.StatusBadRequest
	case dispatch.KindServer:
		status = http.StatusBadGateway
	case dispatch.KindNetwork:
		status = http.StatusServiceUnavailable
	}
	h.Logger.Warn("booking action failed",
		zap.String("kind", string(actionErr.Kind)), zap.String("message", actionErr.Message))
	c.JSON(status, gin.H{"error": actionErr.Message, "kind": string(actionErr.Kind)})
}
