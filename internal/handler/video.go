package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/nihongo-sekai/internal/media"
	"github.com/iliyamo/nihongo-sekai/internal/repository"
	"github.com/iliyamo/nihongo-sekai/internal/service"
)

// VideoHandler issues call credentials.
type VideoHandler struct {
	Video *service.VideoService
}

func NewVideoHandler(s *service.VideoService) *VideoHandler {
	return &VideoHandler{Video: s}
}

// CreateRoom handles POST /api/video/create.
func (h *VideoHandler) CreateRoom(c echo.Context) error {
	var req service.CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	room, err := h.Video.CreateRoom(c.Request().Context(), req)
	if err != nil {
		return videoError(c, err)
	}
	return ok(c, http.StatusCreated, echo.Map{"roomId": room.ID, "roomName": room.RoomName})
}

// Token handles POST /api/video/token.
func (h *VideoHandler) Token(c echo.Context) error {
	var req service.TokenRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	creds, err := h.Video.Token(c.Request().Context(), req)
	if err != nil {
		return videoError(c, err)
	}
	return ok(c, http.StatusOK, creds)
}

func videoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrRoomNotFound):
		return fail(c, http.StatusNotFound, "room not found")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, "room already exists")
	case errors.Is(err, media.ErrNotConfigured):
		return fail(c, http.StatusServiceUnavailable, "video service is not configured")
	default:
		c.Logger().Errorf("video: %v", err)
		return fail(c, http.StatusBadGateway, "video service error")
	}
}
