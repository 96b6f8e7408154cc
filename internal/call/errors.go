package call

import "errors"

var (
	// ErrContainerNotFound means the mount target named in Config does not exist.
	ErrContainerNotFound = errors.New("video container not found")
	// ErrSDKUnavailable means no media SDK is configured or it cannot be reached.
	ErrSDKUnavailable = errors.New("media sdk unavailable")
	// ErrJoinFailed wraps any failure of the SDK join request.
	ErrJoinFailed = errors.New("join failed")
	// ErrConnection is reported by the SDK when the media connection drops.
	ErrConnection = errors.New("connection error")
	// ErrPermissions is reported by the SDK when camera or microphone access is denied.
	ErrPermissions = errors.New("permissions error")
	// ErrNotAuthorized is returned by host-only operations for non-hosts.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNotConnected is returned by operations that need an active call.
	ErrNotConnected = errors.New("not connected")
	// ErrInvalidState is returned by Init outside the idle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrSessionClosed is returned by an Init whose join completed after Destroy.
	ErrSessionClosed = errors.New("session closed")
)

var classes = []struct {
	err     error
	class   string
	message string
}{
	{ErrContainerNotFound, "container_not_found", "Video container not found. Please reload the classroom."},
	{ErrSDKUnavailable, "sdk_unavailable", "Video service is currently unavailable."},
	{ErrJoinFailed, "join_failed", "Failed to join the call. Please try again."},
	{ErrConnection, "connection_error", "Connection lost. Please check your network."},
	{ErrPermissions, "permissions_error", "Camera or microphone access was denied."},
	{ErrNotAuthorized, "not_authorized", "Only the host can control recording."},
	{ErrNotConnected, "not_connected", "You are not connected to the call."},
	{ErrInvalidState, "invalid_state", "A call is already in progress."},
	{ErrSessionClosed, "session_closed", "The call was closed."},
}

// Class returns a stable identifier for err's error class, or "unknown".
func Class(err error) string {
	for _, c := range classes {
		if errors.Is(err, c.err) {
			return c.class
		}
	}
	return "unknown"
}

// Message returns the user-facing text for err.
func Message(err error) string {
	for _, c := range classes {
		if errors.Is(err, c.err) {
			return c.message
		}
	}
	return "Something went wrong with the call."
}
