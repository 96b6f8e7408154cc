package call

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a Notification, matching the toast styles of
// the classroom page.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a user-visible message emitted by a Controller.  Cause
// is set to the error class (see Class) for failures.
type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Cause   string    `json:"cause,omitempty"`
	State   State     `json:"state,omitempty"`
	At      time.Time `json:"at"`
}

// Notifier receives controller notifications.  Implementations must not
// call back into the Controller.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Multi fans a notification out to every non-nil notifier in order.
func Multi(ns ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notification) {
		for _, x := range ns {
			if x != nil {
				x.Notify(ctx, n)
			}
		}
	})
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct{ Logger *slog.Logger }

func (l LogNotifier) Notify(ctx context.Context, n Notification) {
	lg := l.Logger
	if lg == nil {
		lg = slog.Default()
	}
	lvl := slog.LevelInfo
	switch n.Level {
	case LevelWarning:
		lvl = slog.LevelWarn
	case LevelError:
		lvl = slog.LevelError
	}
	lg.Log(ctx, lvl, n.Message, slog.String("cause", n.Cause), slog.String("state", string(n.State)))
}

// History keeps the most recent notifications in memory.
type History struct {
	max int

	mu    sync.Mutex
	items []Notification
}

func NewHistory(max int) *History {
	if max <= 0 {
		max = 50
	}
	return &History{max: max}
}

func (h *History) Notify(_ context.Context, n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = append(h.items, n)
	if over := len(h.items) - h.max; over > 0 {
		h.items = append(h.items[:0:0], h.items[over:]...)
	}
}

// Recent returns a copy of the stored notifications, oldest first.
func (h *History) Recent() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Notification(nil), h.items...)
}

func newNotification(level Level, msg string) Notification {
	return Notification{ID: uuid.NewString(), Level: level, Message: msg, At: time.Now().UTC()}
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Someone"
	}
	return name
}

// JoinedMessage is the text shown when a participant enters the call.
func JoinedMessage(name string) string { return fmt.Sprintf("%s joined the call", displayName(name)) }

// LeftMessage is the text shown when a participant leaves the call.
func LeftMessage(name string) string { return fmt.Sprintf("%s left the call", displayName(name)) }

var stateMessages = map[State]struct {
	level Level
	text  string
}{
	StateConnecting: {LevelInfo, "Connecting to the classroom..."},
	StateConnected:  {LevelSuccess, "You joined the call"},
	StateLeaving:    {LevelInfo, "Leaving the call..."},
	StateIdle:       {LevelInfo, "You left the call"},
}

func toggleMessage(device string, on bool) string {
	if on {
		return device + " turned on"
	}
	return device + " turned off"
}
