package model

import "time"

// VideoRoom is a provisioned call room attached to a classroom.  ID is
// the public room id handed to clients; RoomName is the name the media
// server knows the room by.
type VideoRoom struct {
	ID              string    `json:"roomId" db:"id"`
	RoomName        string    `json:"roomName" db:"room_name"`
	ClassroomID     uint64    `json:"classroomId" db:"classroom_id"`
	HostID          uint64    `json:"hostId" db:"host_id"`
	SessionName     string    `json:"sessionName" db:"session_name"`
	MaxParticipants int       `json:"maxParticipants" db:"max_participants"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// CallRole is the role a participant joins a video room with.
type CallRole string

const (
	CallHost        CallRole = "host"
	CallParticipant CallRole = "participant"
)
