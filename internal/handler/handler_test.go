package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/nihongo-sekai/internal/call"
	"github.com/iliyamo/nihongo-sekai/internal/middleware"
	"github.com/iliyamo/nihongo-sekai/internal/model"
	"github.com/iliyamo/nihongo-sekai/internal/repository"
	"github.com/iliyamo/nihongo-sekai/internal/seed"
	"github.com/iliyamo/nihongo-sekai/internal/service"
	"github.com/iliyamo/nihongo-sekai/internal/utils"
)

const secret = "test-secret"

type listResp struct {
	Success     bool         `json:"success"`
	Data        []model.Item `json:"data"`
	TotalCount  int          `json:"totalCount"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	PageSize    int          `json:"pageSize"`
	Message     string       `json:"message"`
}

type memRooms struct {
	mu    sync.Mutex
	rooms map[string]model.VideoRoom
}

func (m *memRooms) Create(_ context.Context, r model.VideoRoom) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[r.ID] = r
	return nil
}

func (m *memRooms) GetByID(_ context.Context, id string) (model.VideoRoom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return model.VideoRoom{}, repository.ErrRoomNotFound
	}
	return r, nil
}

func (m *memRooms) Has(ctx context.Context, id string) bool {
	_, err := m.GetByID(ctx, id)
	return err == nil
}

type stubMedia struct{}

func (stubMedia) URL() string                                 { return "wss://media.test" }
func (stubMedia) CreateRoom(context.Context, string, int) error { return nil }
func (stubMedia) Token(room, identity, _ string, role model.CallRole) (string, error) {
	return room + ":" + identity + ":" + string(role), nil
}

type stubSDK struct{ recStarts int }

func (*stubSDK) Available() bool { return true }
func (*stubSDK) Join(context.Context, call.JoinRequest) (<-chan call.Event, error) {
	return nil, nil
}
func (*stubSDK) Leave(context.Context) error                 { return nil }
func (*stubSDK) Destroy()                                    {}
func (s *stubSDK) StartRecording(context.Context) error      { s.recStarts++; return nil }
func (*stubSDK) StopRecording(context.Context) error         { return nil }
func (*stubSDK) SetCamera(context.Context, bool) error       { return nil }
func (*stubSDK) SetMicrophone(context.Context, bool) error   { return nil }

type testServer struct {
	e     *echo.Echo
	rooms *memRooms
	sdk   *stubSDK
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	catalog := service.NewCatalogService(repository.NewMemoryCatalog(seed.All()), 0, nil, nil, nil)
	rooms := &memRooms{rooms: map[string]model.VideoRoom{}}
	sdk := &stubSDK{}
	calls := service.NewCallSessions(rooms, stubMedia{}, func() call.SDK { return sdk }, nil, nil)
	identity := service.NewIdentityService(repository.NewMemoryUsers(seed.Users()), secret, time.Hour)
	t.Cleanup(func() { calls.Close(context.Background()) })

	e := echo.New()
	e.Use(middleware.Identity(secret))

	ch := NewCatalogHandler(catalog)
	e.GET("/v1/classrooms", ch.List(model.KindClassroom))
	e.GET("/v1/courses", ch.List(model.KindCourse))
	e.GET("/v1/classrooms/:id", ch.Get(model.KindClassroom))
	e.POST("/v1/classrooms/:id/enroll", ch.Enroll)
	e.GET("/v1/search/live", NewLiveSearchHandler(catalog, 100*time.Millisecond, nil).Serve)

	vh := NewVideoHandler(service.NewVideoService(rooms, stubMedia{}, nil))
	e.POST("/api/video/create", vh.CreateRoom)
	e.POST("/api/video/token", vh.Token)

	cl := NewCallHandler(calls)
	g := e.Group("/v1/calls/:roomId")
	g.GET("", cl.Snapshot)
	g.DELETE("", cl.Destroy)
	g.POST("/join", cl.Join)
	g.POST("/recording/start", cl.StartRecording)
	g.PUT("/camera", cl.Device("camera"))
	g.GET("/notifications", cl.Notifications)

	ah := NewAuthHandler(identity)
	e.POST("/v1/auth/demo", ah.Demo)
	e.GET("/v1/me", ah.Me)

	return &testServer{e: e, rooms: rooms, sdk: sdk}
}

func bearer(t *testing.T, u model.User) string {
	t.Helper()
	tok, err := utils.NewIdentityToken(secret, u, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func (s *testServer) do(method, target, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestList_Defaults(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/v1/classrooms", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res listResp
	decode(t, rec, &res)
	require.True(t, res.Success)
	require.Equal(t, 10, res.TotalCount)
	require.Equal(t, 2, res.TotalPages)
	require.Equal(t, 1, res.CurrentPage)
	require.Equal(t, 6, res.PageSize)
	require.Len(t, res.Data, 6)
	require.Empty(t, res.Message)
}

func TestList_Filters(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/v1/courses?priceRange=free&sort=name-asc", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res listResp
	decode(t, rec, &res)
	require.NotEmpty(t, res.Data)
	for _, it := range res.Data {
		require.Zero(t, it.Price)
	}

	rec = s.do(http.MethodGet, "/v1/classrooms?search=zzzz", "", "")
	decode(t, rec, &res)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0, res.TotalCount)
	require.Equal(t, msgNoResults, res.Message)
}

func TestList_InvalidFilter(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/v1/classrooms?level=expert", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"success":false`)
}

func TestList_PagePastTheEnd(t *testing.T) {
	s := newServer(t)

	var res listResp
	decode(t, s.do(http.MethodGet, "/v1/classrooms?page=3", "", ""), &res)
	require.Equal(t, 2, res.CurrentPage)
	require.Len(t, res.Data, 4)

	rec := s.do(http.MethodGet, "/v1/classrooms?page=3&clamp=false", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"data":[]`)
	decode(t, rec, &res)
	require.Equal(t, 3, res.CurrentPage)
	require.Equal(t, 10, res.TotalCount)
	require.Equal(t, msgPastTheEnd, res.Message)
}

func TestGet(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/v1/classrooms/104", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Kanji Sprint")

	require.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/classrooms/1", "", "").Code)
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/v1/classrooms/abc", "", "").Code)
}

func TestEnroll(t *testing.T) {
	s := newServer(t)
	emma := bearer(t, model.User{ID: 1, Name: "Emma Learner", Role: model.RoleLearner})

	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/v1/classrooms/103/enroll", "", "").Code)

	rec := s.do(http.MethodPost, "/v1/classrooms/103/enroll", "", emma)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"enrolledStudents":7`)

	require.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/v1/classrooms/103/enroll", "", emma).Code)
	require.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/v1/classrooms/104/enroll", "", emma).Code)
}

func TestVideo_CreateAndToken(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/api/video/create", `{"classroomId":103,"hostId":2,"sessionName":"Café","maxParticipants":8}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Success bool `json:"success"`
		Data    struct {
			RoomID string `json:"roomId"`
		} `json:"data"`
	}
	decode(t, rec, &created)
	require.True(t, created.Success)
	require.NotEmpty(t, created.Data.RoomID)

	rec = s.do(http.MethodPost, "/api/video/token", `{"roomId":"`+created.Data.RoomID+`","userId":1,"role":"participant","userName":"Emma"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var creds struct {
		Data service.Credentials `json:"data"`
	}
	decode(t, rec, &creds)
	require.Equal(t, "wss://media.test", creds.Data.RoomURL)
	require.True(t, strings.HasSuffix(creds.Data.Token, ":user-1:participant"))

	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/video/create", `{"hostId":2}`, "").Code)
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/video/token", `{"roomId":"nope","userId":1,"role":"host","userName":"x"}`, "").Code)
}

func TestCalls(t *testing.T) {
	s := newServer(t)
	room := model.VideoRoom{ID: "5f1c2d9e-0000-4000-8000-000000000001", RoomName: "classroom-103-5f1c2d9e", ClassroomID: 103, HostID: 2}
	require.NoError(t, s.rooms.Create(context.Background(), room))
	emma := bearer(t, model.User{ID: 1, Name: "Emma Learner", Role: model.RoleLearner})
	base := "/v1/calls/" + room.ID

	require.Equal(t, http.StatusNotFound, s.do(http.MethodGet, base, "", emma).Code)

	rec := s.do(http.MethodPost, base+"/join", "", emma)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"state":"connected"`)
	require.Contains(t, rec.Body.String(), `"participantCount":1`)

	rec = s.do(http.MethodPost, base+"/recording/start", "", emma)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), `"error":"not_authorized"`)
	require.Zero(t, s.sdk.recStarts)

	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, base+"/camera", `{}`, emma).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, base+"/camera", `{"enabled":false}`, emma).Code)

	rec = s.do(http.MethodGet, base+"/notifications", "", emma)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Camera")

	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, base, "", emma).Code)
	require.Equal(t, http.StatusNotFound, s.do(http.MethodGet, base, "", emma).Code)
}

func TestCalls_JoinUnknownRoom(t *testing.T) {
	s := newServer(t)
	emma := bearer(t, model.User{ID: 1, Name: "Emma Learner", Role: model.RoleLearner})

	rec := s.do(http.MethodPost, "/v1/calls/missing/join", "", emma)
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Success bool          `json:"success"`
		Error   string        `json:"error"`
		Data    call.Snapshot `json:"data"`
	}
	decode(t, rec, &body)
	require.False(t, body.Success)
	require.Equal(t, "container_not_found", body.Error)
	require.Equal(t, call.StateError, body.Data.State)
}

func TestAuth_DemoAndMe(t *testing.T) {
	s := newServer(t)

	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/v1/me", "", "").Code)
	require.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/v1/auth/demo", `{"userId":99}`, "").Code)
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/v1/auth/demo", `{}`, "").Code)

	rec := s.do(http.MethodPost, "/v1/auth/demo", `{"userId":2}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var demo struct {
		Data authResp `json:"data"`
	}
	decode(t, rec, &demo)
	require.NotEmpty(t, demo.Data.Access.Token)

	rec = s.do(http.MethodGet, "/v1/me", "", "Bearer "+demo.Data.Access.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Tanaka Yuki")
}
