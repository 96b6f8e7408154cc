package call

import (
	"context"
	"sync"
)

type fakeSDK struct {
	mu sync.Mutex

	available bool
	joinErr   error
	leaveErr  error
	recErr    error
	joinGate  chan struct{}
	events    chan Event

	joins, leaves, destroys int
	recStarts, recStops     int
	camera, mic             []bool
	lastJoin                JoinRequest
}

func newFakeSDK() *fakeSDK {
	return &fakeSDK{available: true, events: make(chan Event, 16)}
}

func (f *fakeSDK) Available() bool { return f.available }

func (f *fakeSDK) Join(ctx context.Context, req JoinRequest) (<-chan Event, error) {
	if f.joinGate != nil {
		<-f.joinGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joins++
	f.lastJoin = req
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	return f.events, nil
}

func (f *fakeSDK) Leave(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaves++
	return f.leaveErr
}

func (f *fakeSDK) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroys++
}

func (f *fakeSDK) StartRecording(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recStarts++
	return f.recErr
}

func (f *fakeSDK) StopRecording(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recStops++
	return f.recErr
}

func (f *fakeSDK) SetCamera(ctx context.Context, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.camera = append(f.camera, on)
	return nil
}

func (f *fakeSDK) SetMicrophone(ctx context.Context, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mic = append(f.mic, on)
	return nil
}

func (f *fakeSDK) counts() (joins, leaves, destroys, recStarts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.joins, f.leaves, f.destroys, f.recStarts
}

func mountsOf(ids ...string) Mounts {
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return MountsFunc(func(_ context.Context, id string) bool { return set[id] })
}
