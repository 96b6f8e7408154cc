// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Queue names double as routing keys on the default exchange.
const (
	EnrollmentQueue  = "classroom.enrolled"
	CallSessionQueue = "call.session"
)

// EnrollmentConfirmedEvent is published when a learner takes a seat in a
// classroom.  It carries enough information for downstream consumers to
// log, notify the teacher or trigger analytics without querying the
// primary database.
type EnrollmentConfirmedEvent struct {
	EventID          string `json:"event_id"`
	ClassroomID      uint64 `json:"classroom_id"`
	ClassroomTitle   string `json:"classroom_title"`
	Instructor       string `json:"instructor"`
	UserID           uint64 `json:"user_id"`
	UserName         string `json:"user_name"`
	EnrolledStudents int    `json:"enrolled_students"`
	MaxStudents      int    `json:"max_students"`
	Full             bool   `json:"full"`
	StartsAt         string `json:"starts_at,omitempty"`
	EnrolledAt       string `json:"enrolled_at"`
}

// Call session phases.
const (
	SessionStarted = "started"
	SessionEnded   = "ended"
)

// CallSessionEvent is published when a user's call session starts or
// ends.  DurationSeconds is only set on "ended".
type CallSessionEvent struct {
	EventID         string `json:"event_id"`
	Phase           string `json:"phase"`
	RoomID          string `json:"room_id"`
	RoomName        string `json:"room_name"`
	ClassroomID     uint64 `json:"classroom_id"`
	UserID          uint64 `json:"user_id"`
	UserName        string `json:"user_name"`
	Host            bool   `json:"host"`
	Recorded        bool   `json:"recorded,omitempty"`
	DurationSeconds int64  `json:"duration_seconds,omitempty"`
	At              string `json:"at"`
}
