// Package call manages one participant's video-call session on top of an
// external media SDK.  The Controller tracks connection state and the
// participant roster, guards host-only operations and reports every
// change through an injected Notifier; media capture, signalling and
// recording are left to the SDK.
package call

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// SDK is the media capability a Controller drives.  Join returns the
// channel on which the SDK delivers events for the joined room; the SDK
// closes it when the room is left or destroyed.
type SDK interface {
	Available() bool
	Join(ctx context.Context, req JoinRequest) (<-chan Event, error)
	Leave(ctx context.Context) error
	Destroy()
	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) error
	SetCamera(ctx context.Context, on bool) error
	SetMicrophone(ctx context.Context, on bool) error
}

// JoinRequest carries the opaque credentials issued for a room.
type JoinRequest struct {
	RoomURL  string
	Token    string
	UserName string
}

// Mounts answers whether a mount target for the call exists.
type Mounts interface {
	Has(ctx context.Context, id string) bool
}

// MountsFunc adapts a function to Mounts.
type MountsFunc func(ctx context.Context, id string) bool

func (f MountsFunc) Has(ctx context.Context, id string) bool { return f(ctx, id) }

// Config describes the call to join.
type Config struct {
	ContainerID string
	RoomURL     string
	Token       string
	UserName    string
	IsHost      bool
}

// Snapshot is a point-in-time copy of a controller's state.
type Snapshot struct {
	State            State         `json:"state"`
	Participants     []Participant `json:"participants"`
	ParticipantCount int           `json:"participantCount"`
	IsRecording      bool          `json:"isRecording"`
	IsHost           bool          `json:"isHost"`
	StartTime        *time.Time    `json:"startTime,omitempty"`
	LastError        string        `json:"lastError,omitempty"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for SDK failures and dropped events.
func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.log = l } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithStateHook registers fn to observe every state change.  fn runs
// with the controller locked and must not call back into it.
func WithStateHook(fn func(from, to State)) Option { return func(c *Controller) { c.onState = fn } }

// Controller is safe for concurrent use.  SDK events and caller
// operations are serialised by an internal mutex; blocking SDK calls run
// without holding it.
type Controller struct {
	sdk      SDK
	mounts   Mounts
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
	onState  func(from, to State)

	mu        sync.Mutex
	state     State
	cfg       Config
	roster    *Roster
	localID   string
	recording bool
	startTime *time.Time
	lastErr   error
	gen       uint64
	outbox    []Notification
}

// New builds an idle Controller.  A nil notifier discards notifications.
func New(sdk SDK, mounts Mounts, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		sdk:      sdk,
		mounts:   mounts,
		notifier: notifier,
		log:      slog.Default(),
		now:      time.Now,
		state:    StateIdle,
		roster:   NewRoster(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Init joins the call described by cfg.  It is only valid from the idle
// state.  Precondition and join failures move the controller to the
// error state, emit one error notification and are returned; Init never
// panics on SDK failure.
func (c *Controller) Init(ctx context.Context, cfg Config) error {
	c.mu.Lock()
	if c.state != StateIdle {
		st := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: init while %s", ErrInvalidState, st)
	}
	c.cfg = cfg
	c.lastErr = nil
	gen := c.gen
	c.transition(StateConnecting, nil)
	c.flush(ctx)

	if err := c.preflight(ctx, cfg); err != nil {
		c.fail(ctx, gen, err)
		return err
	}

	events, err := c.sdk.Join(ctx, JoinRequest{RoomURL: cfg.RoomURL, Token: cfg.Token, UserName: cfg.UserName})
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrJoinFailed, err)
		c.fail(ctx, gen, err)
		return err
	}

	c.mu.Lock()
	if c.gen != gen || c.state != StateConnecting {
		c.mu.Unlock()
		// Destroy or Leave ran while the join was in flight.
		c.sdk.Destroy()
		return ErrSessionClosed
	}
	t := c.now().UTC()
	c.startTime = &t
	c.transition(StateConnected, nil)
	c.flush(ctx)

	if events != nil {
		go c.pump(context.WithoutCancel(ctx), gen, events)
	}
	return nil
}

func (c *Controller) preflight(ctx context.Context, cfg Config) error {
	if c.mounts == nil || cfg.ContainerID == "" || !c.mounts.Has(ctx, cfg.ContainerID) {
		return fmt.Errorf("%w: %q", ErrContainerNotFound, cfg.ContainerID)
	}
	if c.sdk == nil || !c.sdk.Available() {
		return ErrSDKUnavailable
	}
	if cfg.RoomURL == "" || cfg.Token == "" {
		return fmt.Errorf("%w: missing room url or token", ErrJoinFailed)
	}
	return nil
}

func (c *Controller) fail(ctx context.Context, gen uint64, err error) {
	c.mu.Lock()
	if c.gen == gen && c.state.CanTransition(StateError) {
		c.lastErr = err
		c.transition(StateError, err)
	}
	c.flush(ctx)
}

func (c *Controller) pump(ctx context.Context, gen uint64, events <-chan Event) {
	for ev := range events {
		if !c.dispatch(ctx, gen, ev) {
			return
		}
	}
}

// Dispatch applies an SDK event to the current session.
func (c *Controller) Dispatch(ctx context.Context, ev Event) {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()
	c.dispatch(ctx, gen, ev)
}

// dispatch returns false once gen is stale so the pump can stop.
func (c *Controller) dispatch(ctx context.Context, gen uint64, ev Event) bool {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return false
	}

	var leave bool
	switch e := ev.(type) {
	case Joined:
		c.localID = e.SessionID
	case ParticipantJoined:
		if c.state == StateConnected && e.Participant.SessionID != c.localID {
			if c.roster.Put(e.Participant) {
				c.enqueue(newNotification(LevelInfo, JoinedMessage(e.Participant.Name)))
			}
		}
	case ParticipantUpdated:
		if c.state == StateConnected && e.Participant.SessionID != c.localID {
			c.roster.Put(e.Participant)
		}
	case ParticipantLeft:
		if p, ok := c.roster.Remove(e.Participant.SessionID); ok {
			name := e.Participant.Name
			if name == "" {
				name = p.Name
			}
			c.enqueue(newNotification(LevelInfo, LeftMessage(name)))
		}
	case RecordingToggled:
		if c.recording != e.Active {
			c.recording = e.Active
			c.enqueue(recordingNotification(e.Active))
		}
	case Failed:
		if c.state.CanTransition(StateError) {
			err := e.Err
			if !errors.Is(err, ErrConnection) && !errors.Is(err, ErrPermissions) {
				err = fmt.Errorf("%w: %v", ErrConnection, err)
			}
			c.lastErr = err
			c.transition(StateError, err)
		}
	case Left:
		leave = c.state == StateConnected || c.state == StateError
	default:
		c.log.Warn("call: unhandled sdk event", slog.String("type", fmt.Sprintf("%T", ev)))
	}

	if leave {
		c.gen++
		c.transition(StateLeaving, nil)
		c.reset()
		c.transition(StateIdle, nil)
	}
	c.flush(ctx)
	return !leave
}

// Leave exits the call.  The controller always ends up idle; SDK errors
// are logged and not returned.
func (c *Controller) Leave(ctx context.Context) {
	c.mu.Lock()
	if !c.state.CanTransition(StateLeaving) {
		c.mu.Unlock()
		return
	}
	c.gen++
	c.transition(StateLeaving, nil)
	c.flush(ctx)

	if c.sdk != nil {
		if err := c.sdk.Leave(ctx); err != nil {
			c.log.WarnContext(ctx, "call: leave failed", slog.Any("error", err))
		}
	}

	c.mu.Lock()
	if c.state == StateLeaving {
		c.reset()
		c.transition(StateIdle, nil)
	}
	c.flush(ctx)
}

// Destroy tears down the SDK frame and clears all local state.  It is
// safe to call repeatedly and from any state.
func (c *Controller) Destroy() {
	c.mu.Lock()
	c.gen++
	c.reset()
	c.cfg = Config{}
	c.lastErr = nil
	if c.state != StateIdle {
		c.setState(StateIdle)
		c.enqueue(newNotification(LevelInfo, "Video session closed"))
	}
	c.flush(context.Background())

	if c.sdk != nil {
		c.sdk.Destroy()
	}
}

// StartRecording starts the room recording.  Only the host may record.
func (c *Controller) StartRecording(ctx context.Context) error {
	return c.toggleRecording(ctx, true)
}

// StopRecording stops the room recording.  Only the host may record.
func (c *Controller) StopRecording(ctx context.Context) error {
	return c.toggleRecording(ctx, false)
}

func (c *Controller) toggleRecording(ctx context.Context, on bool) error {
	c.mu.Lock()
	if !c.cfg.IsHost {
		c.enqueue(errorNotification(LevelWarning, ErrNotAuthorized, c.state))
		c.flush(ctx)
		return ErrNotAuthorized
	}
	if c.state != StateConnected {
		c.flush(ctx)
		return ErrNotConnected
	}
	if c.recording == on {
		c.flush(ctx)
		return nil
	}
	c.mu.Unlock()

	var err error
	if on {
		err = c.sdk.StartRecording(ctx)
	} else {
		err = c.sdk.StopRecording(ctx)
	}

	c.mu.Lock()
	if err != nil {
		verb := "start"
		if !on {
			verb = "stop"
		}
		n := newNotification(LevelError, fmt.Sprintf("Failed to %s recording", verb))
		n.State = c.state
		c.enqueue(n)
		c.flush(ctx)
		return fmt.Errorf("%s recording: %w", verb, err)
	}
	if c.recording != on {
		c.recording = on
		c.enqueue(recordingNotification(on))
	}
	c.flush(ctx)
	return nil
}

// SetCamera forwards a camera toggle to the SDK.
func (c *Controller) SetCamera(ctx context.Context, on bool) error {
	if c.sdk == nil {
		return ErrSDKUnavailable
	}
	return c.toggleDevice(ctx, "Camera", on, c.sdk.SetCamera)
}

// SetMicrophone forwards a microphone toggle to the SDK.
func (c *Controller) SetMicrophone(ctx context.Context, on bool) error {
	if c.sdk == nil {
		return ErrSDKUnavailable
	}
	return c.toggleDevice(ctx, "Microphone", on, c.sdk.SetMicrophone)
}

func (c *Controller) toggleDevice(ctx context.Context, device string, on bool, fn func(context.Context, bool) error) error {
	if err := fn(ctx, on); err != nil {
		c.mu.Lock()
		c.enqueue(newNotification(LevelError, fmt.Sprintf("Could not change %s", device)))
		c.flush(ctx)
		return fmt.Errorf("set %s: %w", device, err)
	}
	c.mu.Lock()
	c.enqueue(newNotification(LevelInfo, toggleMessage(device, on)))
	c.flush(ctx)
	return nil
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the controller's state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		State:            c.state,
		Participants:     c.roster.List(),
		ParticipantCount: c.roster.Count(),
		IsRecording:      c.recording,
		IsHost:           c.cfg.IsHost,
	}
	if c.startTime != nil {
		t := *c.startTime
		s.StartTime = &t
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}

// transition moves to `to` and queues the matching notification.  The
// caller holds c.mu.
func (c *Controller) transition(to State, cause error) {
	if !c.state.CanTransition(to) {
		c.log.Warn("call: rejected transition", slog.String("from", string(c.state)), slog.String("to", string(to)))
		return
	}
	c.setState(to)
	if to == StateError {
		c.enqueue(errorNotification(LevelError, cause, to))
		return
	}
	if m, ok := stateMessages[to]; ok {
		n := newNotification(m.level, m.text)
		n.State = to
		c.enqueue(n)
	}
}

func (c *Controller) setState(to State) {
	from := c.state
	c.state = to
	if c.onState != nil {
		c.onState(from, to)
	}
}

func (c *Controller) reset() {
	c.roster.Reset()
	c.localID = ""
	c.recording = false
	c.startTime = nil
}

func (c *Controller) enqueue(n Notification) { c.outbox = append(c.outbox, n) }

// flush unlocks c.mu and delivers queued notifications outside the lock.
func (c *Controller) flush(ctx context.Context) {
	out := c.outbox
	c.outbox = nil
	c.mu.Unlock()
	if c.notifier == nil {
		return
	}
	for _, n := range out {
		c.notifier.Notify(ctx, n)
	}
}

func errorNotification(level Level, err error, st State) Notification {
	n := newNotification(level, Message(err))
	n.Cause = Class(err)
	n.State = st
	return n
}

func recordingNotification(on bool) Notification {
	if on {
		return newNotification(LevelSuccess, "Recording started")
	}
	return newNotification(LevelInfo, "Recording stopped")
}
