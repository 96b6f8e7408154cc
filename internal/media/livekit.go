package media

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/iliyamo/nihongo-sekai/internal/call"
)

// Recorder starts and stops room recordings.  *Provisioner implements it.
type Recorder interface {
	StartRecording(ctx context.Context, room string) (string, error)
	StopRecording(ctx context.Context, egressID string) error
}

// RoomSDK joins one LiveKit room and translates room callbacks into
// call events.  One instance serves one Controller.  The room callbacks
// carry no recording state, so RecordingToggled is emitted here once the
// egress request succeeds.
type RoomSDK struct {
	rec       Recorder
	available bool
	log       *slog.Logger

	mu       sync.RWMutex
	room     *lksdk.Room
	roomName string
	events   chan call.Event
	closed   bool
	egressID string
}

// NewRoomSDK returns an SDK that reports itself unavailable when
// available is false (missing credentials).
func NewRoomSDK(rec Recorder, available bool, log *slog.Logger) *RoomSDK {
	if log == nil {
		log = slog.Default()
	}
	return &RoomSDK{rec: rec, available: available, log: log}
}

func (s *RoomSDK) Available() bool { return s.available }

func (s *RoomSDK) Join(ctx context.Context, req call.JoinRequest) (<-chan call.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events := make(chan call.Event, 64)

	s.mu.Lock()
	if s.room != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("already joined %s", s.room.Name())
	}
	s.events = events
	s.closed = false
	s.mu.Unlock()

	room, err := lksdk.ConnectToRoomWithToken(req.RoomURL, req.Token, s.callbacks(), lksdk.WithAutoSubscribe(false))
	if err != nil {
		s.shutdown()
		return nil, err
	}

	s.mu.Lock()
	s.room = room
	s.roomName = room.Name()
	s.mu.Unlock()

	s.emit(call.Joined{SessionID: room.LocalParticipant.SID()})
	for _, rp := range room.GetRemoteParticipants() {
		s.emit(call.ParticipantUpdated{Participant: participantOf(rp)})
	}
	return events, nil
}

func (s *RoomSDK) callbacks() *lksdk.RoomCallback {
	cb := lksdk.NewRoomCallback()
	cb.OnParticipantConnected = func(rp *lksdk.RemoteParticipant) {
		s.emit(call.ParticipantJoined{Participant: participantOf(rp)})
	}
	cb.OnParticipantDisconnected = func(rp *lksdk.RemoteParticipant) {
		s.emit(call.ParticipantLeft{Participant: participantOf(rp)})
	}
	cb.OnDisconnectedWithReason = func(reason lksdk.DisconnectionReason) {
		s.emit(call.Left{Reason: fmt.Sprint(reason)})
	}
	cb.ParticipantCallback.OnTrackMuted = func(_ lksdk.TrackPublication, p lksdk.Participant) {
		s.emitUpdate(p)
	}
	cb.ParticipantCallback.OnTrackUnmuted = func(_ lksdk.TrackPublication, p lksdk.Participant) {
		s.emitUpdate(p)
	}
	cb.ParticipantCallback.OnTrackPublished = func(_ *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
		s.emit(call.ParticipantUpdated{Participant: participantOf(rp)})
	}
	cb.ParticipantCallback.OnTrackUnpublished = func(_ *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
		s.emit(call.ParticipantUpdated{Participant: participantOf(rp)})
	}
	return cb
}

func (s *RoomSDK) emitUpdate(p lksdk.Participant) {
	if rp, ok := p.(*lksdk.RemoteParticipant); ok {
		s.emit(call.ParticipantUpdated{Participant: participantOf(rp)})
	}
}

// emit never blocks; events are dropped once the channel is closed or
// full.
func (s *RoomSDK) emit(ev call.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || s.events == nil {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.log.Warn("media: event dropped", slog.String("type", fmt.Sprintf("%T", ev)))
	}
}

func participantOf(rp *lksdk.RemoteParticipant) call.Participant {
	p := call.Participant{SessionID: rp.SID(), UserID: rp.Identity(), Name: rp.Name()}
	for _, pub := range rp.TrackPublications() {
		if pub.IsMuted() {
			continue
		}
		switch pub.Source() {
		case livekit.TrackSource_CAMERA:
			p.Video = true
		case livekit.TrackSource_MICROPHONE:
			p.Audio = true
		}
	}
	return p
}

func (s *RoomSDK) Leave(ctx context.Context) error {
	s.mu.RLock()
	egress := s.egressID
	s.mu.RUnlock()
	if egress != "" {
		if err := s.rec.StopRecording(ctx, egress); err != nil {
			s.log.WarnContext(ctx, "media: stop recording on leave", slog.Any("error", err))
		}
	}
	s.shutdown()
	return nil
}

// Destroy disconnects without stopping an active recording; egress ends
// on its own once the room empties.
func (s *RoomSDK) Destroy() { s.shutdown() }

// shutdown disconnects the room before taking the write lock, since
// Disconnect fires callbacks that call emit.
func (s *RoomSDK) shutdown() {
	s.mu.Lock()
	room := s.room
	s.room = nil
	s.roomName = ""
	s.egressID = ""
	s.mu.Unlock()

	if room != nil {
		room.Disconnect()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed && s.events != nil {
		close(s.events)
	}
	s.closed = true
}

func (s *RoomSDK) StartRecording(ctx context.Context) error {
	s.mu.RLock()
	name := s.roomName
	s.mu.RUnlock()
	if name == "" {
		return call.ErrNotConnected
	}
	id, err := s.rec.StartRecording(ctx, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.egressID = id
	s.mu.Unlock()
	s.emit(call.RecordingToggled{Active: true})
	return nil
}

// StopRecording keeps the egress id when the stop request fails so the
// host can retry.
func (s *RoomSDK) StopRecording(ctx context.Context) error {
	s.mu.RLock()
	id := s.egressID
	s.mu.RUnlock()
	if id == "" {
		return call.ErrNotConnected
	}
	if err := s.rec.StopRecording(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	if s.egressID == id {
		s.egressID = ""
	}
	s.mu.Unlock()
	s.emit(call.RecordingToggled{Active: false})
	return nil
}

func (s *RoomSDK) SetCamera(_ context.Context, on bool) error {
	return s.setMuted(livekit.TrackSource_CAMERA, !on)
}

func (s *RoomSDK) SetMicrophone(_ context.Context, on bool) error {
	return s.setMuted(livekit.TrackSource_MICROPHONE, !on)
}

// setMuted mutes every local publication of source.  A participant that
// publishes nothing of that source is left unchanged.
func (s *RoomSDK) setMuted(source livekit.TrackSource, muted bool) error {
	s.mu.RLock()
	room := s.room
	s.mu.RUnlock()
	if room == nil {
		return call.ErrNotConnected
	}
	for _, pub := range room.LocalParticipant.TrackPublications() {
		if pub.Source() != source {
			continue
		}
		if lp, ok := pub.(*lksdk.LocalTrackPublication); ok {
			lp.SetMuted(muted)
		}
	}
	return nil
}
