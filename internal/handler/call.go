package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/nihongo-sekai/internal/call"
	"github.com/iliyamo/nihongo-sekai/internal/middleware"
	"github.com/iliyamo/nihongo-sekai/internal/model"
	"github.com/iliyamo/nihongo-sekai/internal/service"
)

// CallHandler drives the current user's call session in a room.  All
// routes sit behind middleware.RequireUser.
type CallHandler struct {
	Calls    *service.CallSessions
	validate *validator.Validate
}

func NewCallHandler(s *service.CallSessions) *CallHandler {
	return &CallHandler{Calls: s, validate: validator.New()}
}

type deviceReq struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// caller returns the room id and the current user.
func caller(c echo.Context) (string, model.User) {
	u, _ := middleware.CurrentUser(c)
	return c.Param("roomId"), u
}

// Join handles POST /v1/calls/:roomId/join.  A failed join answers with
// the error class and the session snapshot, which is in the error state.
func (h *CallHandler) Join(c echo.Context) error {
	roomID, u := caller(c)
	snap, err := h.Calls.Join(c.Request().Context(), roomID, u)
	if err != nil {
		return callError(c, err, &snap)
	}
	return ok(c, http.StatusOK, snap)
}

// Leave handles POST /v1/calls/:roomId/leave.
func (h *CallHandler) Leave(c echo.Context) error {
	roomID, u := caller(c)
	snap, err := h.Calls.Leave(c.Request().Context(), roomID, u)
	if err != nil {
		return callError(c, err, nil)
	}
	return ok(c, http.StatusOK, snap)
}

// Destroy handles DELETE /v1/calls/:roomId.
func (h *CallHandler) Destroy(c echo.Context) error {
	roomID, u := caller(c)
	if err := h.Calls.Destroy(c.Request().Context(), roomID, u); err != nil {
		return callError(c, err, nil)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CallHandler) StartRecording(c echo.Context) error { return h.recording(c, true) }
func (h *CallHandler) StopRecording(c echo.Context) error  { return h.recording(c, false) }

func (h *CallHandler) recording(c echo.Context, on bool) error {
	roomID, u := caller(c)
	snap, err := h.Calls.SetRecording(c.Request().Context(), roomID, u, on)
	if err != nil {
		return callError(c, err, nil)
	}
	return ok(c, http.StatusOK, snap)
}

// Device returns the handler for PUT /v1/calls/:roomId/{camera,microphone}.
func (h *CallHandler) Device(device string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req deviceReq
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid body")
		}
		if err := h.validate.Struct(req); err != nil {
			return fail(c, http.StatusBadRequest, "enabled is required")
		}
		roomID, u := caller(c)
		if err := h.Calls.SetDevice(c.Request().Context(), roomID, u, device, *req.Enabled); err != nil {
			return callError(c, err, nil)
		}
		return ok(c, http.StatusOK, echo.Map{"device": device, "enabled": *req.Enabled})
	}
}

// Snapshot handles GET /v1/calls/:roomId.
func (h *CallHandler) Snapshot(c echo.Context) error {
	roomID, u := caller(c)
	snap, err := h.Calls.Snapshot(roomID, u)
	if err != nil {
		return callError(c, err, nil)
	}
	return ok(c, http.StatusOK, snap)
}

// Notifications handles GET /v1/calls/:roomId/notifications.
func (h *CallHandler) Notifications(c echo.Context) error {
	roomID, u := caller(c)
	notes, err := h.Calls.Notifications(roomID, u)
	if err != nil {
		return callError(c, err, nil)
	}
	return ok(c, http.StatusOK, notes)
}

func callError(c echo.Context, err error, snap *call.Snapshot) error {
	var status int
	switch {
	case errors.Is(err, service.ErrNoSession):
		return fail(c, http.StatusNotFound, "no call session, join first")
	case errors.Is(err, service.ErrUnknownDevice):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, call.ErrContainerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, call.ErrSDKUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, call.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, call.ErrNotConnected), errors.Is(err, call.ErrInvalidState), errors.Is(err, call.ErrSessionClosed):
		status = http.StatusConflict
	default:
		status = http.StatusBadGateway
	}
	body := echo.Map{"success": false, "error": call.Class(err), "message": call.Message(err)}
	if snap != nil {
		body["data"] = snap
	}
	return c.JSON(status, body)
}
