package service

import (
	"context"
	"errors"
	"sync"

	"github.com/iliyamo/nihongo-sekai/internal/call"
	"github.com/iliyamo/nihongo-sekai/internal/model"
	"github.com/iliyamo/nihongo-sekai/internal/repository"
)

type published struct {
	queue string
	event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, queue string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{queue, event})
	return f.err
}

func (f *fakePublisher) all() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.events...)
}

type fakePurger struct{ n int }

func (f *fakePurger) Purge(context.Context) error { f.n++; return nil }

type fakeRooms struct {
	mu      sync.Mutex
	rooms   map[string]model.VideoRoom
	created []model.VideoRoom
}

func newFakeRooms(rooms ...model.VideoRoom) *fakeRooms {
	f := &fakeRooms{rooms: map[string]model.VideoRoom{}}
	for _, r := range rooms {
		f.rooms[r.ID] = r
	}
	return f
}

func (f *fakeRooms) Create(_ context.Context, room model.VideoRoom) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[room.ID] = room
	f.created = append(f.created, room)
	return nil
}

func (f *fakeRooms) GetByID(_ context.Context, id string) (model.VideoRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return model.VideoRoom{}, repository.ErrRoomNotFound
	}
	return r, nil
}

func (f *fakeRooms) Has(ctx context.Context, id string) bool {
	_, err := f.GetByID(ctx, id)
	return err == nil
}

type tokenCall struct {
	room, identity, name string
	role                 model.CallRole
}

type fakeMedia struct {
	mu        sync.Mutex
	createErr error
	rooms     []string
	tokens    []tokenCall
}

func (f *fakeMedia) URL() string { return "wss://media.test" }

func (f *fakeMedia) CreateRoom(_ context.Context, name string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms = append(f.rooms, name)
	return f.createErr
}

func (f *fakeMedia) Token(room, identity, name string, role model.CallRole) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, tokenCall{room, identity, name, role})
	return "tok-" + identity, nil
}

// stubSDK joins instantly and records recording calls.
type stubSDK struct {
	mu        sync.Mutex
	available bool
	joinErr   error
	recStarts int
	events    chan call.Event
}

func (s *stubSDK) Available() bool { return s.available }

func (s *stubSDK) Join(context.Context, call.JoinRequest) (<-chan call.Event, error) {
	if s.joinErr != nil {
		return nil, s.joinErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(chan call.Event, 4)
	return s.events, nil
}

func (s *stubSDK) Leave(context.Context) error { s.close(); return nil }
func (s *stubSDK) Destroy()                    { s.close() }

func (s *stubSDK) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events != nil {
		close(s.events)
		s.events = nil
	}
}

func (s *stubSDK) StartRecording(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recStarts++
	return nil
}

func (s *stubSDK) StopRecording(context.Context) error        { return nil }
func (s *stubSDK) SetCamera(context.Context, bool) error      { return nil }
func (s *stubSDK) SetMicrophone(context.Context, bool) error  { return nil }

var errBoom = errors.New("boom")
