package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return New(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListAssignments_SendsFiltersAndToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /assignments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("week_start"))
		assert.Equal(t, "3", r.URL.Query().Get("location_id"))
		assert.Equal(t, "", r.URL.Query().Get("user_id"))
		writeJSON(w, http.StatusOK, []domain.Assignment{{ID: 1, UserID: 1, LocationID: 3, TimeSlotID: 7, WeekStartDate: "2024-01-01"}})
	})
	client := newTestClient(t, mux).WithToken("tok-1")

	locationID := int64(3)
	assignments, err := client.ListAssignments(context.Background(), domain.AssignmentFilter{
		WeekStart:  "2024-01-01",
		LocationID: &locationID,
	})

	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, int64(7), assignments[0].TimeSlotID)
}

func TestWithToken_DoesNotLeakIntoParent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []domain.User{})
	})
	parent := newTestClient(t, mux)
	_ = parent.WithToken("secret")

	_, err := parent.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", parent.Token())
}

func TestMoveAssignment_Conflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /assignments/9/move", func(w http.ResponseWriter, r *http.Request) {
		var body domain.MoveAssignmentRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(2), body.NewTimeSlotID)
		assert.Equal(t, int64(5), body.NewLocationID)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   CodeOverMaxWorkers,
			"message": "Maximum 3 workers already scheduled in that slot",
		})
	})
	client := newTestClient(t, mux)

	_, err := client.MoveAssignment(context.Background(), 9, domain.MoveAssignmentRequest{
		NewTimeSlotID: 2,
		NewLocationID: 5,
		NewStart:      "2024-01-01T09:00:00Z",
		NewEnd:        "2024-01-01T10:00:00Z",
	})

	require.Error(t, err)
	assert.True(t, IsConflict(err))
	serverErr, ok := AsServerError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, serverErr.Status)
	assert.Equal(t, "Maximum 3 workers already scheduled in that slot", ConflictMessage(err, "Failed to move assignment"))
	assert.Equal(t, CodeOverMaxWorkers, Message(err, "Failed to move assignment"))
}

func TestServerError_WithoutJSONBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /assignments/404", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<h1>Not Found</h1>"))
	})
	client := newTestClient(t, mux)

	err := client.DeleteAssignment(context.Background(), 404)

	require.Error(t, err)
	assert.False(t, IsConflict(err))
	assert.Equal(t, "Failed to remove assignment", Message(err, "Failed to remove assignment"))
}

func TestMe_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	})
	client := newTestClient(t, mux).WithToken("expired")

	_, err := client.Me(context.Background())

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Unauthorized", Message(err, "fallback"))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	srv.Close()
	client := New(Options{BaseURL: srv.URL, Timeout: time.Second})

	_, err := client.ListTimeSlots(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, "Failed to load schedule data", Message(err, "Failed to load schedule data"))
}

func TestLoginAndRunScheduler(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@mule.edu", body["email"])
		assert.Equal(t, "admin", body["role"])
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "tok-admin",
			"user":  domain.User{ID: 1, Name: "Ada", Email: "ada@mule.edu", Role: domain.RoleAdmin},
		})
	})
	mux.HandleFunc("POST /assignments/run-scheduler", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-admin", r.Header.Get("Authorization"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2024-01-01", body["week_start_date"])
		writeJSON(w, http.StatusOK, map[string]string{"message": "Created 12 assignments"})
	})
	client := newTestClient(t, mux)

	login, err := client.Login(context.Background(), "ada@mule.edu", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, login.User.Role)

	result, err := client.WithToken(login.Token).RunScheduler(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "Created 12 assignments", result.Message)
}

// dropConnection 读完请求体后直接断开连接，模拟上游已处理但响应丢失
func dropConnection(hits *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		hj, ok := w.(http.Hijacker)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			return
		}
		_ = conn.Close()
	}
}

func newRetryingClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return New(Options{
		BaseURL:          srv.URL,
		Timeout:          5 * time.Second,
		RetryCount:       2,
		RetryWaitTime:    time.Millisecond,
		RetryMaxWaitTime: 5 * time.Millisecond,
	})
}

func TestRetry_MutationsAreSentOnce(t *testing.T) {
	var creates, moves, deletes, runs atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /assignments", dropConnection(&creates))
	mux.HandleFunc("PUT /assignments/1/move", dropConnection(&moves))
	mux.HandleFunc("DELETE /assignments/1", dropConnection(&deletes))
	mux.HandleFunc("POST /assignments/run-scheduler", dropConnection(&runs))
	client := newRetryingClient(t, mux)
	ctx := context.Background()

	_, err := client.CreateAssignment(ctx, domain.CreateAssignmentRequest{UserID: 1, LocationID: 1, TimeSlotID: 1, WeekStartDate: "2024-01-01"})
	require.ErrorIs(t, err, ErrTransport)
	_, err = client.MoveAssignment(ctx, 1, domain.MoveAssignmentRequest{NewTimeSlotID: 2, NewLocationID: 1})
	require.ErrorIs(t, err, ErrTransport)
	require.ErrorIs(t, client.DeleteAssignment(ctx, 1), ErrTransport)
	_, err = client.RunScheduler(ctx, "2024-01-01")
	require.ErrorIs(t, err, ErrTransport)

	assert.Equal(t, int32(1), creates.Load())
	assert.Equal(t, int32(1), moves.Load())
	assert.Equal(t, int32(1), deletes.Load())
	assert.Equal(t, int32(1), runs.Load())
}

func TestRetry_ReadsAreRetried(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", dropConnection(&hits))
	client := newRetryingClient(t, mux)

	_, err := client.ListUsers(context.Background())

	require.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, int32(3), hits.Load())
}
