package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fieldsync/internal/app/agent/config"
	"fieldsync/internal/domain/emergency"
)

func newTestApp(t *testing.T, srv *httptest.Server) *App {
	t.Helper()
	cfg := &config.Config{
		Env:                 "local",
		ServerAddress:       strings.TrimPrefix(srv.URL, "http://"),
		DataPath:            filepath.Join(t.TempDir(), "agent.db"),
		UserID:              "tech-1",
		UserName:            "Marc",
		SyncIntervalSeconds: 30,
		SettleDelayMillis:   1000,
		CacheTTLSeconds:     60,
		WorkHoursFrom:       7,
		WorkHoursTo:         18,
	}
	app, err := New(cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestApp_ClaimEmergency_Won(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/emergencies/7/claim", r.URL.Path)
		json.NewEncoder(w).Encode(emergency.ClaimResult{
			Success:     true,
			BonusAmount: 50,
			Emergency:   &emergency.Emergency{ID: 7, BonusAmount: 50, Currency: "CHF"},
		})
	}))
	defer srv.Close()
	app := newTestApp(t, srv)

	result, err := app.ClaimEmergency(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, float64(50), result.BonusAmount)
}

func TestApp_ClaimEmergency_WonWithoutRow(t *testing.T) {
	// A success response missing the emergency body must not crash the
	// claim path.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(emergency.ClaimResult{Success: true, BonusAmount: 50})
	}))
	defer srv.Close()
	app := newTestApp(t, srv)

	result, err := app.ClaimEmergency(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.Emergency)
}

func TestApp_ClaimEmergency_Lost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(emergency.ClaimResult{Success: false, Error: "already claimed"})
	}))
	defer srv.Close()
	app := newTestApp(t, srv)

	result, err := app.ClaimEmergency(context.Background(), 7)

	require.NoError(t, err, "losing the race is an outcome, not an error")
	assert.False(t, result.Success)
}

func TestApp_ClaimEmergency_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	app := newTestApp(t, srv)

	result, err := app.ClaimEmergency(context.Background(), 7)

	require.Error(t, err)
	assert.Nil(t, result, "a transport error is never a win")
}
