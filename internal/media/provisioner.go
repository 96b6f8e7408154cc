// Package media talks to the LiveKit media server: it provisions rooms,
// signs join tokens, drives room-composite recordings and joins rooms as
// a server-side participant on behalf of call.Controller.
package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/iliyamo/nihongo-sekai/internal/config"
	"github.com/iliyamo/nihongo-sekai/internal/model"
	"github.com/iliyamo/nihongo-sekai/internal/tracing"
)

// ErrNotConfigured is returned by every server call when LiveKit
// credentials are missing.
var ErrNotConfigured = errors.New("media server not configured")

// Provisioner wraps the LiveKit room and egress services.
type Provisioner struct {
	cfg    config.MediaConfig
	rooms  *lksdk.RoomServiceClient
	egress *lksdk.EgressClient
}

func NewProvisioner(cfg config.MediaConfig) *Provisioner {
	p := &Provisioner{cfg: cfg}
	if cfg.Configured() {
		p.rooms = lksdk.NewRoomServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret)
		p.egress = lksdk.NewEgressClient(cfg.URL, cfg.APIKey, cfg.APISecret)
	}
	return p
}

// URL is the websocket url clients join with.
func (p *Provisioner) URL() string { return p.cfg.URL }

func (p *Provisioner) Configured() bool { return p.cfg.Configured() }

// CreateRoom creates (or reuses) a room on the media server.
func (p *Provisioner) CreateRoom(ctx context.Context, name string, maxParticipants int) error {
	if p.rooms == nil {
		return ErrNotConfigured
	}
	ctx, span := tracing.Tracer("media").Start(ctx, "livekit.CreateRoom")
	defer span.End()
	span.SetAttributes(attribute.String("room", name), attribute.Int("max_participants", maxParticipants))

	_, err := p.rooms.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:            name,
		EmptyTimeout:    uint32(p.cfg.EmptyTimeout / time.Second),
		MaxParticipants: uint32(max(maxParticipants, 0)),
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("create room %s: %w", name, err)
	}
	return nil
}

// Token signs a join token for identity.  Hosts also get the admin and
// record grants.
func (p *Provisioner) Token(room, identity, name string, role model.CallRole) (string, error) {
	if !p.cfg.Configured() {
		return "", ErrNotConfigured
	}
	host := role == model.CallHost
	at := auth.NewAccessToken(p.cfg.APIKey, p.cfg.APISecret)
	at.SetVideoGrant(&auth.VideoGrant{
		RoomJoin:   true,
		Room:       room,
		RoomAdmin:  host,
		RoomRecord: host,
	}).
		SetIdentity(identity).
		SetName(name).
		SetValidFor(p.cfg.TokenTTL)
	return at.ToJWT()
}

// StartRecording starts a room-composite egress and returns its id.  The
// file path may use the egress templates {room_name} and {time}.
func (p *Provisioner) StartRecording(ctx context.Context, room string) (string, error) {
	if p.egress == nil {
		return "", ErrNotConfigured
	}
	ctx, span := tracing.Tracer("media").Start(ctx, "livekit.StartRoomCompositeEgress")
	defer span.End()

	info, err := p.egress.StartRoomCompositeEgress(ctx, &livekit.RoomCompositeEgressRequest{
		RoomName:    room,
		FileOutputs: []*livekit.EncodedFileOutput{{Filepath: p.cfg.RecordingPath}},
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("start egress for %s: %w", room, err)
	}
	return info.EgressId, nil
}

func (p *Provisioner) StopRecording(ctx context.Context, egressID string) error {
	if p.egress == nil {
		return ErrNotConfigured
	}
	_, err := p.egress.StopEgress(ctx, &livekit.StopEgressRequest{EgressId: egressID})
	if err != nil {
		return fmt.Errorf("stop egress %s: %w", egressID, err)
	}
	return nil
}

// Participants returns the identities currently in room.
func (p *Provisioner) Participants(ctx context.Context, room string) ([]string, error) {
	if p.rooms == nil {
		return nil, ErrNotConfigured
	}
	resp, err := p.rooms.ListParticipants(ctx, &livekit.ListParticipantsRequest{Room: room})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Participants))
	for _, pi := range resp.Participants {
		ids = append(ids, pi.Identity)
	}
	return ids, nil
}
