package call

// Event is a message from the media SDK.  The set of implementations is
// closed; Controller.Dispatch switches over all of them.
type Event interface {
	event()
}

// Participant is one remote member of the call.
type Participant struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId,omitempty"`
	Name      string `json:"name"`
	Video     bool   `json:"video"`
	Audio     bool   `json:"audio"`
}

// Joined confirms the local user is in the room.
type Joined struct{ SessionID string }

// ParticipantJoined reports a remote participant entering the room.
type ParticipantJoined struct{ Participant Participant }

// ParticipantUpdated reports changed tracks or metadata.
type ParticipantUpdated struct{ Participant Participant }

// ParticipantLeft reports a remote participant leaving the room.
type ParticipantLeft struct{ Participant Participant }

// RecordingToggled reports the room recording starting or stopping.
type RecordingToggled struct{ Active bool }

// Failed reports a fatal SDK error.  Err should wrap ErrConnection or
// ErrPermissions.
type Failed struct{ Err error }

// Left reports that the SDK dropped the local user from the room.
type Left struct{ Reason string }

func (Joined) event()             {}
func (ParticipantJoined) event()  {}
func (ParticipantUpdated) event() {}
func (ParticipantLeft) event()    {}
func (RecordingToggled) event()   {}
func (Failed) event()             {}
func (Left) event()               {}
