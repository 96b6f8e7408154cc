package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandle_Enrollment(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	body, err := json.Marshal(EnrollmentConfirmedEvent{
		ClassroomID: 104, ClassroomTitle: "Kanji Sprint", Instructor: "Suzuki Kenji",
		UserID: 1, UserName: "Emma", EnrolledStudents: 15, MaxStudents: 15, Full: true,
		EnrolledAt: "2025-03-01T10:00:00Z",
	})
	require.NoError(t, err)

	require.NoError(t, Handle(dir, EnrollmentQueue, body))
	require.NoError(t, Handle(dir, EnrollmentQueue, body))

	data, err := os.ReadFile(filepath.Join(dir, "enrollment.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `classroom="Kanji Sprint"`)
	require.Contains(t, lines[0], "seats=15/15 FULL")
}

func TestHandle_CallSession(t *testing.T) {
	dir := t.TempDir()
	body, _ := json.Marshal(CallSessionEvent{Phase: SessionEnded, RoomID: "r-1", UserID: 2, Host: true, DurationSeconds: 90, At: "t"})
	require.NoError(t, Handle(dir, CallSessionQueue, body))

	data, err := os.ReadFile(filepath.Join(dir, "calls.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "Call ended | room_id=r-1")
	require.Contains(t, string(data), "role=host")
	require.Contains(t, string(data), "duration=90s")
}

func TestHandle_Rejects(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, Handle(dir, EnrollmentQueue, []byte("{")))
	require.Error(t, Handle(dir, "other", []byte("{}")))

	_, err := os.Stat(filepath.Join(dir, "enrollment.log"))
	require.True(t, os.IsNotExist(err))
}

func TestCallSessionLine_Started(t *testing.T) {
	line := CallSessionLine(CallSessionEvent{Phase: SessionStarted, RoomID: "r", At: "t"})
	require.Contains(t, line, "role=participant")
	require.NotContains(t, line, "duration")
}
