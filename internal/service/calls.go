package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/iliyamo/nihongo-sekai/internal/call"
	"github.com/iliyamo/nihongo-sekai/internal/metrics"
	"github.com/iliyamo/nihongo-sekai/internal/model"
	"github.com/iliyamo/nihongo-sekai/internal/queue"
	"github.com/iliyamo/nihongo-sekai/internal/tracing"
)

// ErrNoSession is returned for call operations on a room the user has not
// joined through this server.
var ErrNoSession = errors.New("no call session")

// ErrUnknownDevice is returned by SetDevice for anything but camera and
// microphone.
var ErrUnknownDevice = errors.New("unknown device")

// RoomLookup finds provisioned rooms.  Has is the mount check of the call
// controller: a room id that was never provisioned has nothing to join.
type RoomLookup interface {
	GetByID(ctx context.Context, id string) (model.VideoRoom, error)
	Has(ctx context.Context, id string) bool
}

// TokenIssuer signs join tokens for the server-side participant.
type TokenIssuer interface {
	URL() string
	Token(room, identity, name string, role model.CallRole) (string, error)
}

// SDKFactory returns a fresh media SDK for one session.
type SDKFactory func() call.SDK

type sessionKey struct {
	room string
	user uint64
}

type callSession struct {
	ctrl    *call.Controller
	history *call.History
	user    model.User
	room    model.VideoRoom
}

// CallSessions owns one call.Controller per (room, user) pair.
type CallSessions struct {
	rooms  RoomLookup
	tokens TokenIssuer
	newSDK SDKFactory
	pub    EventPublisher
	log    *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[sessionKey]*callSession
}

func NewCallSessions(rooms RoomLookup, tokens TokenIssuer, newSDK SDKFactory, pub EventPublisher, lg *slog.Logger) *CallSessions {
	if lg == nil {
		lg = slog.Default()
	}
	return &CallSessions{
		rooms:    rooms,
		tokens:   tokens,
		newSDK:   newSDK,
		pub:      pub,
		log:      lg,
		now:      time.Now,
		sessions: make(map[sessionKey]*callSession),
	}
}

func (s *CallSessions) session(roomID string, u model.User, create bool) (*callSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{roomID, u.ID}
	if sess, ok := s.sessions[key]; ok {
		return sess, true
	}
	if !create {
		return nil, false
	}
	lg := s.log.With(slog.String("room_id", roomID), slog.Uint64("user_id", u.ID))
	history := call.NewHistory(0)
	notifier := call.Multi(
		history,
		call.LogNotifier{Logger: lg},
		call.NotifierFunc(func(_ context.Context, n call.Notification) {
			metrics.CallNotifications.WithLabelValues(string(n.Level)).Inc()
		}),
	)
	ctrl := call.New(s.newSDK(), call.MountsFunc(s.rooms.Has), notifier,
		call.WithLogger(lg),
		call.WithStateHook(func(from, to call.State) {
			metrics.CallTransitions.WithLabelValues(string(from), string(to)).Inc()
		}),
	)
	sess := &callSession{ctrl: ctrl, history: history, user: u}
	s.sessions[key] = sess
	metrics.ActiveCalls.Inc()
	return sess, true
}

// Join starts the user's session in roomID.  The user joins as host when
// they are the room's host.  A failed join leaves the session in the
// error state with its notifications; the error is returned as well.
// A room that does not exist keeps no session: the error snapshot is
// returned and the session is dropped.
func (s *CallSessions) Join(ctx context.Context, roomID string, u model.User) (call.Snapshot, error) {
	ctx, span := tracing.Tracer("calls").Start(ctx, "calls.Join")
	defer span.End()
	span.SetAttributes(attribute.String("room_id", roomID))

	sess, _ := s.session(roomID, u, true)
	if sess.ctrl.State() == call.StateError {
		// retry after a failed join
		sess.ctrl.Leave(ctx)
	}
	cfg := call.Config{ContainerID: roomID, UserName: u.Name}
	if room, err := s.rooms.GetByID(ctx, roomID); err == nil {
		sess.room = room
		cfg.IsHost = room.HostID == u.ID
		role := model.CallParticipant
		if cfg.IsHost {
			role = model.CallHost
		}
		if tok, err := s.tokens.Token(room.RoomName, identityOf(u.ID), u.Name, role); err == nil {
			cfg.RoomURL, cfg.Token = s.tokens.URL(), tok
		} else {
			s.log.WarnContext(ctx, "call token not issued", slog.String("room_id", roomID), slog.Any("error", err))
		}
	}

	if err := sess.ctrl.Init(ctx, cfg); err != nil {
		span.RecordError(err)
		snap := sess.ctrl.Snapshot()
		if errors.Is(err, call.ErrContainerNotFound) {
			s.forget(ctx, sessionKey{roomID, u.ID}, sess)
		}
		return snap, err
	}
	s.publish(ctx, sess, queue.SessionStarted, call.Snapshot{})
	return sess.ctrl.Snapshot(), nil
}

// Leave ends the user's session.  The controller always ends up idle;
// the session stays registered so its notifications remain readable.
func (s *CallSessions) Leave(ctx context.Context, roomID string, u model.User) (call.Snapshot, error) {
	sess, ok := s.session(roomID, u, false)
	if !ok {
		return call.Snapshot{}, ErrNoSession
	}
	before := sess.ctrl.Snapshot()
	sess.ctrl.Leave(ctx)
	if before.StartTime != nil {
		s.publish(ctx, sess, queue.SessionEnded, before)
	}
	return sess.ctrl.Snapshot(), nil
}

// Destroy tears the session down and forgets it.
func (s *CallSessions) Destroy(ctx context.Context, roomID string, u model.User) error {
	s.mu.Lock()
	key := sessionKey{roomID, u.ID}
	sess, ok := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()
	if !ok {
		return ErrNoSession
	}
	s.destroy(ctx, sess)
	return nil
}

// forget drops sess unless another call already replaced or removed it.
func (s *CallSessions) forget(ctx context.Context, key sessionKey, sess *callSession) {
	s.mu.Lock()
	cur, ok := s.sessions[key]
	if ok && cur == sess {
		delete(s.sessions, key)
	}
	s.mu.Unlock()
	if ok && cur == sess {
		s.destroy(ctx, sess)
	}
}

func (s *CallSessions) destroy(ctx context.Context, sess *callSession) {
	before := sess.ctrl.Snapshot()
	sess.ctrl.Destroy()
	metrics.ActiveCalls.Dec()
	if before.StartTime != nil {
		s.publish(ctx, sess, queue.SessionEnded, before)
	}
}

// Close destroys every session.  It is called on shutdown.
func (s *CallSessions) Close(ctx context.Context) {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[sessionKey]*callSession)
	s.mu.Unlock()
	for _, sess := range all {
		s.destroy(ctx, sess)
	}
}

// SetRecording starts or stops the room recording.  Only the host may.
func (s *CallSessions) SetRecording(ctx context.Context, roomID string, u model.User, on bool) (call.Snapshot, error) {
	sess, ok := s.session(roomID, u, false)
	if !ok {
		return call.Snapshot{}, ErrNoSession
	}
	var err error
	if on {
		err = sess.ctrl.StartRecording(ctx)
	} else {
		err = sess.ctrl.StopRecording(ctx)
	}
	return sess.ctrl.Snapshot(), err
}

// SetDevice toggles "camera" or "microphone".
func (s *CallSessions) SetDevice(ctx context.Context, roomID string, u model.User, device string, on bool) error {
	sess, ok := s.session(roomID, u, false)
	if !ok {
		return ErrNoSession
	}
	switch device {
	case "camera":
		return sess.ctrl.SetCamera(ctx, on)
	case "microphone":
		return sess.ctrl.SetMicrophone(ctx, on)
	}
	return fmt.Errorf("%w: %q", ErrUnknownDevice, device)
}

func (s *CallSessions) Snapshot(roomID string, u model.User) (call.Snapshot, error) {
	sess, ok := s.session(roomID, u, false)
	if !ok {
		return call.Snapshot{}, ErrNoSession
	}
	return sess.ctrl.Snapshot(), nil
}

// Notifications returns the session's recent notifications, oldest first.
func (s *CallSessions) Notifications(roomID string, u model.User) ([]call.Notification, error) {
	sess, ok := s.session(roomID, u, false)
	if !ok {
		return nil, ErrNoSession
	}
	return sess.history.Recent(), nil
}

// publish sends a call.session event.  For "ended", before is the
// snapshot taken while the call was still up.
func (s *CallSessions) publish(ctx context.Context, sess *callSession, phase string, before call.Snapshot) {
	if s.pub == nil {
		return
	}
	now := s.now().UTC()
	snap := sess.ctrl.Snapshot()
	ev := queue.CallSessionEvent{
		EventID:     uuid.NewString(),
		Phase:       phase,
		RoomID:      sess.room.ID,
		RoomName:    sess.room.RoomName,
		ClassroomID: sess.room.ClassroomID,
		UserID:      sess.user.ID,
		UserName:    sess.user.Name,
		Host:        snap.IsHost,
		At:          now.Format(time.RFC3339),
	}
	if phase == queue.SessionEnded {
		ev.Host = before.IsHost
		ev.Recorded = before.IsRecording
		if before.StartTime != nil {
			ev.DurationSeconds = int64(now.Sub(*before.StartTime) / time.Second)
		}
	}
	_ = s.pub.Publish(context.WithoutCancel(ctx), queue.CallSessionQueue, ev)
}
