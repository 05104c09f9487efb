package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolPulse/internal/model"
)

type fakeWatchdog struct {
	status model.HealthStatus
	resets int
}

func (f *fakeWatchdog) Status() model.HealthStatus { return f.status }

func (f *fakeWatchdog) Reset() {
	f.resets++
	f.status = model.HealthStatus{MaxFailures: f.status.MaxFailures, MaxDowntime: f.status.MaxDowntime}
}

func newTestServer(fw *fakeWatchdog) *httptest.Server {
	mux := http.NewServeMux()
	NewHandler(fw, nil).Register(mux)
	return httptest.NewServer(mux)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&fakeWatchdog{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatusEndpoint(t *testing.T) {
	fw := &fakeWatchdog{status: model.HealthStatus{
		IsTransactionsLocked: true,
		FailureCount:         5,
		MaxFailures:          3,
		MaxDowntime:          20,
	}}
	srv := newTestServer(fw)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/admin/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status model.HealthStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.IsTransactionsLocked)
	assert.Equal(t, 5, status.FailureCount)
}

func TestResetEndpoint(t *testing.T) {
	fw := &fakeWatchdog{status: model.HealthStatus{
		IsDown:               true,
		IsTransactionsLocked: true,
		FailureCount:         25,
		MaxFailures:          3,
		MaxDowntime:          20,
	}}
	srv := newTestServer(fw)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/admin/reset", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status model.HealthStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.IsDown)
	assert.Equal(t, 0, status.FailureCount)
	assert.Equal(t, 1, fw.resets)
}

func TestResetRejectsGet(t *testing.T) {
	fw := &fakeWatchdog{}
	srv := newTestServer(fw)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/admin/reset")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, 0, fw.resets)
}
