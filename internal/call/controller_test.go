package call

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{ContainerID: "room-1", RoomURL: "wss://media.example/room-1", Token: "tok", UserName: "Yuki"}
}

func connected(t *testing.T, cfg Config) (*Controller, *fakeSDK, *History) {
	t.Helper()
	sdk := newFakeSDK()
	h := NewHistory(100)
	c := New(sdk, mountsOf("room-1"), h)
	require.NoError(t, c.Init(context.Background(), cfg))
	require.Equal(t, StateConnected, c.State())
	return c, sdk, h
}

func causes(ns []Notification, cause string) int {
	n := 0
	for _, x := range ns {
		if x.Cause == cause {
			n++
		}
	}
	return n
}

func messages(ns []Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Message)
	}
	return out
}

func TestInit_Connects(t *testing.T) {
	fixed := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	sdk := newFakeSDK()
	h := NewHistory(0)
	var moves []State
	c := New(sdk, mountsOf("room-1"), h,
		WithClock(func() time.Time { return fixed }),
		WithStateHook(func(_, to State) { moves = append(moves, to) }),
	)

	require.NoError(t, c.Init(context.Background(), validConfig()))

	snap := c.Snapshot()
	assert.Equal(t, StateConnected, snap.State)
	require.NotNil(t, snap.StartTime)
	assert.Equal(t, fixed, *snap.StartTime)
	assert.Equal(t, 1, snap.ParticipantCount)
	assert.Equal(t, JoinRequest{RoomURL: "wss://media.example/room-1", Token: "tok", UserName: "Yuki"}, sdk.lastJoin)
	assert.Equal(t, []State{StateConnecting, StateConnected}, moves)
	assert.Equal(t, []string{"Connecting to the classroom...", "You joined the call"}, messages(h.Recent()))
}

func TestInit_MissingContainer(t *testing.T) {
	sdk := newFakeSDK()
	h := NewHistory(0)
	c := New(sdk, mountsOf("room-1"), h)

	cfg := validConfig()
	cfg.ContainerID = "nope"
	err := c.Init(context.Background(), cfg)

	require.ErrorIs(t, err, ErrContainerNotFound)
	assert.Equal(t, StateError, c.State())
	assert.Equal(t, 1, causes(h.Recent(), "container_not_found"))
	joins, _, _, _ := sdk.counts()
	assert.Zero(t, joins)
}

func TestInit_SDKUnavailable(t *testing.T) {
	sdk := newFakeSDK()
	sdk.available = false
	h := NewHistory(0)
	c := New(sdk, mountsOf("room-1"), h)

	err := c.Init(context.Background(), validConfig())
	require.ErrorIs(t, err, ErrSDKUnavailable)
	assert.Equal(t, 1, causes(h.Recent(), "sdk_unavailable"))

	c2 := New(nil, mountsOf("room-1"), nil)
	assert.ErrorIs(t, c2.Init(context.Background(), validConfig()), ErrSDKUnavailable)
	c2.Leave(context.Background())
	assert.Equal(t, StateIdle, c2.State())
}

func TestInit_JoinFailed(t *testing.T) {
	sdk := newFakeSDK()
	sdk.joinErr = errors.New("403 token expired")
	h := NewHistory(0)
	c := New(sdk, mountsOf("room-1"), h)

	err := c.Init(context.Background(), validConfig())
	require.ErrorIs(t, err, ErrJoinFailed)
	assert.Equal(t, StateError, c.State())
	assert.Equal(t, 1, causes(h.Recent(), "join_failed"))
	assert.Contains(t, c.Snapshot().LastError, "token expired")
}

func TestInit_MissingCredentials(t *testing.T) {
	sdk := newFakeSDK()
	c := New(sdk, mountsOf("room-1"), nil)
	cfg := validConfig()
	cfg.Token = ""
	require.ErrorIs(t, c.Init(context.Background(), cfg), ErrJoinFailed)
	joins, _, _, _ := sdk.counts()
	assert.Zero(t, joins)
}

func TestInit_OnlyFromIdle(t *testing.T) {
	c, sdk, _ := connected(t, validConfig())
	err := c.Init(context.Background(), validConfig())
	require.ErrorIs(t, err, ErrInvalidState)
	joins, _, _, _ := sdk.counts()
	assert.Equal(t, 1, joins)
}

func TestInit_DestroyDuringJoin(t *testing.T) {
	sdk := newFakeSDK()
	sdk.joinGate = make(chan struct{})
	c := New(sdk, mountsOf("room-1"), nil)

	done := make(chan error, 1)
	go func() { done <- c.Init(context.Background(), validConfig()) }()

	require.Eventually(t, func() bool { return c.State() == StateConnecting }, time.Second, time.Millisecond)
	c.Destroy()
	close(sdk.joinGate)

	require.ErrorIs(t, <-done, ErrSessionClosed)
	assert.Equal(t, StateIdle, c.State())
	_, _, destroys, _ := sdk.counts()
	assert.Equal(t, 2, destroys)
}

func TestRoster_JoinThenLeave(t *testing.T) {
	c, _, h := connected(t, validConfig())
	ctx := context.Background()
	before := c.Snapshot().ParticipantCount

	c.Dispatch(ctx, ParticipantJoined{Participant: Participant{SessionID: "abc", Name: "Kenji"}})
	assert.Equal(t, before+1, c.Snapshot().ParticipantCount)

	c.Dispatch(ctx, ParticipantLeft{Participant: Participant{SessionID: "abc"}})
	snap := c.Snapshot()
	assert.Equal(t, before, snap.ParticipantCount)
	for _, p := range snap.Participants {
		assert.NotEqual(t, "abc", p.SessionID)
	}

	msgs := messages(h.Recent())
	assert.Contains(t, msgs, "Kenji joined the call")
	assert.Contains(t, msgs, "Kenji left the call")
}

func TestRoster_RepeatedJoinNotifiesOnce(t *testing.T) {
	c, _, h := connected(t, validConfig())
	ctx := context.Background()

	c.Dispatch(ctx, ParticipantJoined{Participant: Participant{SessionID: "abc", Name: "Kenji"}})
	c.Dispatch(ctx, ParticipantJoined{Participant: Participant{SessionID: "abc", Name: "Kenji", Audio: true}})

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.ParticipantCount)
	require.Len(t, snap.Participants, 1)
	assert.True(t, snap.Participants[0].Audio)

	joined := 0
	for _, m := range messages(h.Recent()) {
		if m == "Kenji joined the call" {
			joined++
		}
	}
	assert.Equal(t, 1, joined)
}

func TestRoster_DefaultNameAndUpdates(t *testing.T) {
	c, _, h := connected(t, validConfig())
	ctx := context.Background()

	c.Dispatch(ctx, Joined{SessionID: "me"})
	c.Dispatch(ctx, ParticipantJoined{Participant: Participant{SessionID: "me", Name: "Yuki"}})
	c.Dispatch(ctx, ParticipantJoined{Participant: Participant{SessionID: "p1"}})
	c.Dispatch(ctx, ParticipantUpdated{Participant: Participant{SessionID: "p1", Name: "Aiko", Video: true}})
	c.Dispatch(ctx, ParticipantLeft{Participant: Participant{SessionID: "ghost"}})

	snap := c.Snapshot()
	require.Len(t, snap.Participants, 1)
	assert.Equal(t, Participant{SessionID: "p1", Name: "Aiko", Video: true}, snap.Participants[0])
	assert.Equal(t, 2, snap.ParticipantCount)
	assert.Contains(t, messages(h.Recent()), "Someone joined the call")
	assert.NotContains(t, messages(h.Recent()), "Someone left the call")
}

func TestRecording_HostGuard(t *testing.T) {
	c, sdk, h := connected(t, validConfig())

	err := c.StartRecording(context.Background())
	require.ErrorIs(t, err, ErrNotAuthorized)
	_, _, _, recStarts := sdk.counts()
	assert.Zero(t, recStarts)
	assert.Equal(t, 1, causes(h.Recent(), "not_authorized"))
	assert.False(t, c.Snapshot().IsRecording)
}

func TestRecording_Host(t *testing.T) {
	cfg := validConfig()
	cfg.IsHost = true
	c, sdk, h := connected(t, cfg)
	ctx := context.Background()

	require.NoError(t, c.StartRecording(ctx))
	assert.True(t, c.Snapshot().IsRecording)
	require.NoError(t, c.StartRecording(ctx))
	assert.Equal(t, 1, sdk.recStarts)

	c.Dispatch(ctx, RecordingToggled{Active: true})
	require.NoError(t, c.StopRecording(ctx))
	assert.False(t, c.Snapshot().IsRecording)
	assert.Equal(t, 1, sdk.recStops)

	msgs := messages(h.Recent())
	assert.Contains(t, msgs, "Recording started")
	assert.Contains(t, msgs, "Recording stopped")
}

func TestRecording_NotConnected(t *testing.T) {
	sdk := newFakeSDK()
	c := New(sdk, mountsOf("room-1"), nil)
	cfg := validConfig()
	cfg.IsHost = true
	cfg.ContainerID = "missing"
	_ = c.Init(context.Background(), cfg)

	assert.ErrorIs(t, c.StartRecording(context.Background()), ErrNotConnected)
	assert.Zero(t, sdk.recStarts)
}

func TestLeave_AlwaysEndsIdle(t *testing.T) {
	c, sdk, h := connected(t, validConfig())
	sdk.leaveErr = errors.New("network down")
	c.Dispatch(context.Background(), ParticipantJoined{Participant: Participant{SessionID: "p1", Name: "Aiko"}})

	c.Leave(context.Background())

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Participants)
	assert.Nil(t, snap.StartTime)
	_, leaves, _, _ := sdk.counts()
	assert.Equal(t, 1, leaves)
	msgs := messages(h.Recent())
	assert.Equal(t, []string{"Leaving the call...", "You left the call"}, msgs[len(msgs)-2:])

	// idle: nothing to leave
	c.Leave(context.Background())
	_, leaves, _, _ = sdk.counts()
	assert.Equal(t, 1, leaves)

	require.NoError(t, c.Init(context.Background(), validConfig()))
}

func TestLeave_FromError(t *testing.T) {
	c, _, _ := connected(t, validConfig())
	c.Dispatch(context.Background(), Failed{Err: ErrPermissions})
	assert.Equal(t, StateError, c.State())
	assert.Contains(t, c.Snapshot().LastError, "permissions")

	c.Leave(context.Background())
	assert.Equal(t, StateIdle, c.State())
}

func TestFailed_WrapsUnknownErrors(t *testing.T) {
	c, _, h := connected(t, validConfig())
	c.Dispatch(context.Background(), Failed{Err: errors.New("ice failed")})
	assert.Equal(t, StateError, c.State())
	assert.Equal(t, 1, causes(h.Recent(), "connection_error"))
}

func TestSDKLeftEvent(t *testing.T) {
	c, sdk, _ := connected(t, validConfig())
	c.Dispatch(context.Background(), ParticipantJoined{Participant: Participant{SessionID: "p1"}})
	c.Dispatch(context.Background(), Left{Reason: "room closed"})
	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, c.Snapshot().Participants)
	_, leaves, _, _ := sdk.counts()
	assert.Zero(t, leaves)
}

func TestDestroy_Idempotent(t *testing.T) {
	c, sdk, h := connected(t, validConfig())
	c.Destroy()
	n := len(h.Recent())
	c.Destroy()

	assert.Equal(t, StateIdle, c.State())
	assert.Len(t, h.Recent(), n)
	_, _, destroys, _ := sdk.counts()
	assert.Equal(t, 2, destroys)

	idle := New(newFakeSDK(), nil, nil)
	assert.NotPanics(t, idle.Destroy)
}

func TestEventsChannel(t *testing.T) {
	c, sdk, _ := connected(t, validConfig())
	sdk.events <- ParticipantJoined{Participant: Participant{SessionID: "p9", Name: "Mika"}}
	require.Eventually(t, func() bool { return c.Snapshot().ParticipantCount == 2 }, time.Second, time.Millisecond)
}

func TestDevices(t *testing.T) {
	c, sdk, h := connected(t, validConfig())
	ctx := context.Background()
	require.NoError(t, c.SetCamera(ctx, false))
	require.NoError(t, c.SetMicrophone(ctx, true))
	assert.Equal(t, []bool{false}, sdk.camera)
	assert.Equal(t, []bool{true}, sdk.mic)
	msgs := messages(h.Recent())
	assert.Contains(t, msgs, "Camera turned off")
	assert.Contains(t, msgs, "Microphone turned on")
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Someone joined the call", JoinedMessage("  "))
	assert.Equal(t, "Mai left the call", LeftMessage("Mai"))
	assert.Equal(t, "join_failed", Class(ErrJoinFailed))
	assert.Equal(t, "unknown", Class(errors.New("x")))
	assert.Equal(t, "Something went wrong with the call.", Message(nil))
}

func TestStateTable(t *testing.T) {
	assert.True(t, StateIdle.CanTransition(StateConnecting))
	assert.False(t, StateIdle.CanTransition(StateConnected))
	assert.True(t, StateConnected.CanTransition(StateError))
	assert.False(t, StateLeaving.CanTransition(StateError))
	assert.False(t, StateIdle.CanTransition(StateError))
}
