package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

// ErrInvalidRequest wraps validation failures of request bodies.
var ErrInvalidRequest = errors.New("invalid request")

// RoomProvisioner creates media rooms and signs join tokens.
// *media.Provisioner implements it.
type RoomProvisioner interface {
	URL() string
	CreateRoom(ctx context.Context, name string, maxParticipants int) error
	Token(room, identity, name string, role model.CallRole) (string, error)
}

// RoomStore persists provisioned rooms.  *repository.VideoRoomRepo
// implements it.
type RoomStore interface {
	Create(ctx context.Context, room model.VideoRoom) error
	GetByID(ctx context.Context, id string) (model.VideoRoom, error)
}

// CreateRoomRequest is the body of POST /api/video/create.
type CreateRoomRequest struct {
	ClassroomID     uint64 `json:"classroomId" validate:"required"`
	HostID          uint64 `json:"hostId" validate:"required"`
	SessionName     string `json:"sessionName" validate:"required,max=200"`
	MaxParticipants int    `json:"maxParticipants" validate:"omitempty,min=1,max=500"`
}

// TokenRequest is the body of POST /api/video/token.
type TokenRequest struct {
	RoomID   string `json:"roomId" validate:"required,uuid"`
	UserID   uint64 `json:"userId" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=host participant"`
	UserName string `json:"userName" validate:"required,max=120"`
}

// Credentials are what a client needs to join a room.
type Credentials struct {
	RoomURL string `json:"roomUrl"`
	Token   string `json:"token"`
}

// VideoService issues call credentials.
type VideoService struct {
	rooms    RoomStore
	media    RoomProvisioner
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time
}

func NewVideoService(rooms RoomStore, media RoomProvisioner, lg *slog.Logger) *VideoService {
	if lg == nil {
		lg = slog.Default()
	}
	return &VideoService{rooms: rooms, media: media, validate: validator.New(), log: lg, now: time.Now}
}

// CreateRoom provisions a media room for a classroom session and records
// it.  The returned room id is the handle for token requests.
func (s *VideoService) CreateRoom(ctx context.Context, req CreateRoomRequest) (model.VideoRoom, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.VideoRoom{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	id := uuid.NewString()
	room := model.VideoRoom{
		ID:              id,
		RoomName:        fmt.Sprintf("classroom-%d-%s", req.ClassroomID, id[:8]),
		ClassroomID:     req.ClassroomID,
		HostID:          req.HostID,
		SessionName:     req.SessionName,
		MaxParticipants: req.MaxParticipants,
		CreatedAt:       s.now().UTC().Truncate(time.Second),
	}
	if err := s.media.CreateRoom(ctx, room.RoomName, room.MaxParticipants); err != nil {
		return model.VideoRoom{}, err
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return model.VideoRoom{}, err
	}
	s.log.InfoContext(ctx, "video room created",
		slog.String("room_id", room.ID), slog.String("room", room.RoomName), slog.Uint64("classroom_id", room.ClassroomID))
	return room, nil
}

// Token issues join credentials for the requested role.  Host tokens
// carry the media server's admin and record grants.
func (s *VideoService) Token(ctx context.Context, req TokenRequest) (Credentials, error) {
	if err := s.validate.Struct(req); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return Credentials{}, err
	}
	tok, err := s.media.Token(room.RoomName, identityOf(req.UserID), req.UserName, model.CallRole(req.Role))
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{RoomURL: s.media.URL(), Token: tok}, nil
}

func identityOf(userID uint64) string { return "user-" + strconv.FormatUint(userID, 10) }
