package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/nihongo-sekai/internal/call"
	"github.com/iliyamo/nihongo-sekai/internal/model"
	"github.com/iliyamo/nihongo-sekai/internal/queue"
)

var (
	host    = model.User{ID: 2, Name: "Tanaka Yuki", Role: model.RolePartner}
	learner = model.User{ID: 1, Name: "Emma", Role: model.RoleLearner}
	room    = model.VideoRoom{ID: "5f1c2d9e-0000-4000-8000-000000000001", RoomName: "classroom-103-5f1c2d9e", ClassroomID: 103, HostID: 2}
)

func newCalls(sdk *stubSDK) (*CallSessions, *fakeMedia, *fakePublisher) {
	media := &fakeMedia{}
	pub := &fakePublisher{}
	s := NewCallSessions(newFakeRooms(room), media, func() call.SDK { return sdk }, pub, nil)
	return s, media, pub
}

func TestCallSessions_HostJoinAndLeave(t *testing.T) {
	ctx := context.Background()
	s, media, pub := newCalls(&stubSDK{available: true})

	snap, err := s.Join(ctx, room.ID, host)
	require.NoError(t, err)
	require.Equal(t, call.StateConnected, snap.State)
	require.True(t, snap.IsHost)
	require.Equal(t, 1, snap.ParticipantCount)
	require.Equal(t, []tokenCall{{room.RoomName, "user-2", "Tanaka Yuki", model.CallHost}}, media.tokens)

	snap, err = s.Leave(ctx, room.ID, host)
	require.NoError(t, err)
	require.Equal(t, call.StateIdle, snap.State)

	events := pub.all()
	require.Len(t, events, 2)
	started := events[0].event.(queue.CallSessionEvent)
	ended := events[1].event.(queue.CallSessionEvent)
	require.Equal(t, queue.CallSessionQueue, events[0].queue)
	require.Equal(t, queue.SessionStarted, started.Phase)
	require.Equal(t, queue.SessionEnded, ended.Phase)
	require.True(t, ended.Host)
	require.Equal(t, uint64(103), ended.ClassroomID)

	notes, err := s.Notifications(room.ID, host)
	require.NoError(t, err)
	require.NotEmpty(t, notes)
	require.Equal(t, "You left the call", notes[len(notes)-1].Message)
}

func TestCallSessions_UnknownRoom(t *testing.T) {
	s, media, pub := newCalls(&stubSDK{available: true})

	snap, err := s.Join(context.Background(), "missing", learner)
	require.ErrorIs(t, err, call.ErrContainerNotFound)
	require.Equal(t, call.StateError, snap.State)
	require.Contains(t, snap.LastError, "video container not found")
	require.Empty(t, media.tokens)
	require.Empty(t, pub.all())

	_, err = s.Notifications("missing", learner)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestCallSessions_UnknownRoomsKeepNoSessions(t *testing.T) {
	s, _, _ := newCalls(&stubSDK{available: true})
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		_, err := s.Join(ctx, fmt.Sprintf("bogus-%d", i), learner)
		require.ErrorIs(t, err, call.ErrContainerNotFound)
	}
	_, err := s.Join(ctx, room.ID, learner)
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.sessions, 1)
}

func TestCallSessions_RetryAfterFailedJoin(t *testing.T) {
	sdk := &stubSDK{available: true, joinErr: errBoom}
	s, _, _ := newCalls(sdk)
	ctx := context.Background()

	_, err := s.Join(ctx, room.ID, learner)
	require.ErrorIs(t, err, call.ErrJoinFailed)

	sdk.joinErr = nil
	snap, err := s.Join(ctx, room.ID, learner)
	require.NoError(t, err)
	require.Equal(t, call.StateConnected, snap.State)
	require.False(t, snap.IsHost)
}

func TestCallSessions_LearnerCannotRecord(t *testing.T) {
	sdk := &stubSDK{available: true}
	s, _, _ := newCalls(sdk)
	ctx := context.Background()
	_, err := s.Join(ctx, room.ID, learner)
	require.NoError(t, err)

	_, err = s.SetRecording(ctx, room.ID, learner, true)
	require.ErrorIs(t, err, call.ErrNotAuthorized)
	require.Zero(t, sdk.recStarts)
}

func TestCallSessions_HostRecords(t *testing.T) {
	sdk := &stubSDK{available: true}
	s, _, _ := newCalls(sdk)
	ctx := context.Background()
	_, err := s.Join(ctx, room.ID, host)
	require.NoError(t, err)

	snap, err := s.SetRecording(ctx, room.ID, host, true)
	require.NoError(t, err)
	require.True(t, snap.IsRecording)
	require.Equal(t, 1, sdk.recStarts)
}

func TestCallSessions_NoSession(t *testing.T) {
	s, _, _ := newCalls(&stubSDK{available: true})
	ctx := context.Background()

	_, err := s.Leave(ctx, room.ID, learner)
	require.ErrorIs(t, err, ErrNoSession)
	require.ErrorIs(t, s.Destroy(ctx, room.ID, learner), ErrNoSession)
	require.ErrorIs(t, s.SetDevice(ctx, room.ID, learner, "camera", true), ErrNoSession)
	_, err = s.Snapshot(room.ID, learner)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestCallSessions_DestroyForgetsSession(t *testing.T) {
	s, _, pub := newCalls(&stubSDK{available: true})
	ctx := context.Background()
	_, err := s.Join(ctx, room.ID, learner)
	require.NoError(t, err)
	require.ErrorIs(t, s.SetDevice(ctx, room.ID, learner, "screen", true), ErrUnknownDevice)
	require.NoError(t, s.SetDevice(ctx, room.ID, learner, "microphone", false))

	require.NoError(t, s.Destroy(ctx, room.ID, learner))
	_, err = s.Snapshot(room.ID, learner)
	require.ErrorIs(t, err, ErrNoSession)
	require.Len(t, pub.all(), 2)
}

func TestCallSessions_SDKUnavailable(t *testing.T) {
	s, _, _ := newCalls(&stubSDK{available: false})
	_, err := s.Join(context.Background(), room.ID, host)
	require.ErrorIs(t, err, call.ErrSDKUnavailable)
}
