package handler

import (
	"context"
	"testing"
	"time"

	"ecocoleta/internal/pkg/category"
	"ecocoleta/internal/pkg/point"
	"ecocoleta/internal/pkg/protocol"
	"ecocoleta/internal/pkg/session"
	"ecocoleta/internal/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	adminUser = "admin"
	adminPass = "12345"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Add(name, address string, categories category.Set, contact string) int {
	return m.Called(name, address, categories, contact).Int(0)
}

func (m *mockStore) Update(id int, name, address string, categories category.Set, contact string) error {
	return m.Called(id, name, address, categories, contact).Error(0)
}

func (m *mockStore) List() []point.CollectionPoint {
	return m.Called().Get(0).([]point.CollectionPoint)
}

func (m *mockStore) Filter(label string) []point.CollectionPoint {
	return m.Called(label).Get(0).([]point.CollectionPoint)
}

func newTestHandler(t *testing.T, s store.Store) *Handler {
	t.Helper()
	h, err := NewHandler(WithStore(s), WithCredentials(adminUser, adminPass))
	require.NoError(t, err)
	return h
}

func TestNewHandlerRequiresStoreAndCredentials(t *testing.T) {
	_, err := NewHandler(WithCredentials(adminUser, adminPass))
	require.Error(t, err)
	_, err = NewHandler(WithStore(store.NewMemoryStore()))
	require.Error(t, err)
	_, err = NewHandler(WithStore(store.NewMemoryStore()), WithCredentials("", "x"))
	require.Error(t, err)
}

func TestHandleScenario(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	h := newTestHandler(t, s)
	sess := session.New()

	s.Add("A", "Addr1", category.New("paper"), "x@y")
	s.Add("B", "Addr2", category.New("glass", "metal"), "z@w")

	reply := h.Handle(ctx, sess, "LIST")
	require.Equal(t, protocol.StatusOK, reply.Status)
	require.Len(t, reply.Points, 2)

	reply = h.Handle(ctx, sess, "FILTER|glass")
	require.Equal(t, protocol.StatusOK, reply.Status)
	require.Len(t, reply.Points, 1)
	assert.Equal(t, 2, reply.Points[0].ID)

	reply = h.Handle(ctx, sess, "FILTER|plastic")
	require.Equal(t, protocol.StatusOK, reply.Status)
	assert.Empty(t, reply.Points)

	reply = h.Handle(ctx, sess, "ADD|X|Y|paper|c")
	require.Equal(t, protocol.StatusError, reply.Status)
	assert.Contains(t, reply.Message, "requires administrator")
	assert.Equal(t, 2, s.Len())

	reply = h.Handle(ctx, sess, "LOGIN|admin|12345")
	require.Equal(t, protocol.StatusAuthOK, reply.Status)
	require.True(t, sess.IsAdmin())

	reply = h.Handle(ctx, sess, "ADD|X|Y|paper|c")
	require.Equal(t, protocol.StatusAddOK, reply.Status)
	assert.Equal(t, "3", reply.Message)

	reply = h.Handle(ctx, sess, "UPDATE|3|X2|Y2|glass,metal|c2")
	require.Equal(t, protocol.StatusUpdateOK, reply.Status)
	got, err := s.Get(3)
	require.NoError(t, err)
	assert.True(t, got.Equal(point.New(3, "X2", "Y2", category.New("glass", "metal"), "c2")))

	reply = h.Handle(ctx, sess, "FOO|bar")
	require.Equal(t, protocol.StatusError, reply.Status)
	assert.Contains(t, reply.Message, "unknown command")
	assert.False(t, reply.Close)

	reply = h.Handle(ctx, sess, "list")
	require.Equal(t, protocol.StatusOK, reply.Status)
	assert.Len(t, reply.Points, 3)
}

func TestHandleErrors(t *testing.T) {
	tests := []struct {
		name    string
		admin   bool
		line    string
		status  protocol.Status
		message string
	}{
		{name: "filter without arg", line: "FILTER", status: protocol.StatusError, message: "missing category"},
		{name: "filter blank arg", line: "FILTER|   ", status: protocol.StatusError, message: "missing category"},
		{name: "login malformed", line: "LOGIN|admin", status: protocol.StatusError, message: "malformed LOGIN"},
		{name: "login wrong password", line: "LOGIN|admin|nope", status: protocol.StatusAuthFail},
		{name: "login wrong user", line: "LOGIN|root|12345", status: protocol.StatusAuthFail},
		{name: "login untrimmed user", line: "LOGIN| admin|12345", status: protocol.StatusAuthFail},
		{name: "add unauthorized malformed", line: "ADD|x", status: protocol.StatusError, message: "requires administrator"},
		{name: "update unauthorized", line: "UPDATE|1|a|b|c|d", status: protocol.StatusError, message: "requires administrator"},
		{name: "update unauthorized bad id", line: "UPDATE|x|a|b|c|d", status: protocol.StatusError, message: "requires administrator"},
		{name: "add malformed", admin: true, line: "ADD|a|b|c", status: protocol.StatusError, message: "malformed ADD"},
		{name: "update malformed", admin: true, line: "UPDATE|1|a|b|c", status: protocol.StatusError, message: "malformed UPDATE"},
		{name: "update invalid id", admin: true, line: "UPDATE|one|a|b|c|d", status: protocol.StatusError, message: "invalid id"},
		{name: "update not found", admin: true, line: "UPDATE|99|a|b|c|d", status: protocol.StatusError, message: "not found"},
		{name: "unknown", line: "DELETE|1", status: protocol.StatusError, message: "unknown command: DELETE"},
		{name: "logout is not a server command", admin: true, line: "LOGOUT", status: protocol.StatusError, message: "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemoryStore()
			s.Add("A", "Addr1", category.New("paper"), "x@y")
			h := newTestHandler(t, s)
			sess := session.New()
			sess.SetAdmin(tt.admin)

			reply := h.Handle(context.Background(), sess, tt.line)
			require.Equal(t, tt.status, reply.Status)
			assert.Contains(t, reply.Message, tt.message)
			assert.False(t, reply.Close)
			assert.Equal(t, 1, s.Len())
			assert.Equal(t, tt.admin, sess.IsAdmin())
		})
	}
}

func TestHandleLoginFailureKeepsSession(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())
	sess := session.New()
	require.Equal(t, protocol.StatusAuthOK, h.Handle(context.Background(), sess, "LOGIN|admin|12345").Status)
	require.Equal(t, protocol.StatusAuthFail, h.Handle(context.Background(), sess, "LOGIN|admin|bad").Status)
	assert.True(t, sess.IsAdmin())
}

func TestHandleSessionsAreIndependent(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())
	admin, guest := session.New(), session.New()
	require.Equal(t, protocol.StatusAuthOK, h.Handle(context.Background(), admin, "LOGIN|admin|12345").Status)
	assert.Equal(t, protocol.StatusAddOK, h.Handle(context.Background(), admin, "ADD|a|b|paper|c").Status)
	assert.Equal(t, protocol.StatusError, h.Handle(context.Background(), guest, "ADD|a|b|paper|c").Status)
}

func TestHandleExit(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())
	reply := h.Handle(context.Background(), session.New(), "exit")
	require.Equal(t, protocol.StatusOK, reply.Status)
	assert.Equal(t, "Bye", reply.Message)
	assert.True(t, reply.Close)
}

func TestHandleNormalizesArguments(t *testing.T) {
	s := &mockStore{}
	h := newTestHandler(t, s)
	sess := session.New()
	sess.SetAdmin(true)

	s.On("Add", "Name", "Addr", category.New("paper", "glass"), "c").Return(7).Once()
	reply := h.Handle(context.Background(), sess, "ADD|Name|Addr| Paper,GLASS ,paper|c")
	require.Equal(t, protocol.StatusAddOK, reply.Status)
	assert.Equal(t, "7", reply.Message)

	s.On("Filter", "glass").Return([]point.CollectionPoint{}).Once()
	reply = h.Handle(context.Background(), sess, "FILTER| GLASS ")
	require.Equal(t, protocol.StatusOK, reply.Status)

	s.On("Update", 7, "n", "a", category.New("metal"), "c").Return(store.ErrPointNotFound).Once()
	reply = h.Handle(context.Background(), sess, "UPDATE| 7 |n|a|metal|c")
	require.Equal(t, protocol.StatusError, reply.Status)
	assert.Contains(t, reply.Message, "point with id 7 not found")

	s.AssertExpectations(t)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) ConnectionOpened() { m.Called() }

func (m *mockRecorder) ConnectionClosed() { m.Called() }

func (m *mockRecorder) ObserveCommand(command, status string, duration time.Duration) {
	m.Called(command, status, duration)
}

func TestHandleRecordsMetrics(t *testing.T) {
	rec := &mockRecorder{}
	h, err := NewHandler(
		WithStore(store.NewMemoryStore()),
		WithCredentials(adminUser, adminPass),
		WithMetrics(rec),
	)
	require.NoError(t, err)
	rec.On("ObserveCommand", "LIST", "OK", mock.AnythingOfType("time.Duration")).Once()
	rec.On("ObserveCommand", "UNKNOWN", "ERROR", mock.AnythingOfType("time.Duration")).Once()
	rec.On("ObserveCommand", "ADD", "ERROR", mock.AnythingOfType("time.Duration")).Once()

	sess := session.New()
	h.Handle(context.Background(), sess, "LIST")
	h.Handle(context.Background(), sess, "BOGUS")
	h.Handle(context.Background(), sess, "ADD|a|b|c|d")
	rec.AssertExpectations(t)
}
