package serverapp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/catalog"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/cloud"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/config"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/game"
)

func newTestApp(t *testing.T) (*App, *game.FakeClock) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.DataDir = t.TempDir()
	cfg.Auth.TokenSecret = "integration-test-secret"
	cfg.Balance.ClickVariance = 0
	cfg.Balance.AwardDropChance = 0

	clock := game.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	app, err := New(Options{
		Config:  cfg,
		Catalog: catalog.Default(),
		Clock:   clock,
	})
	require.NoError(t, err)
	return app, clock
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	}
	return rec, out
}

func TestHealthz(t *testing.T) {
	app, _ := newTestApp(t)
	rec, body := doJSON(t, app.Handler, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
}

func TestClickAndState(t *testing.T) {
	app, clock := newTestApp(t)

	rec, body := doJSON(t, app.Handler, http.MethodPost, "/api/game/click", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["result"])
	assert.Equal(t, 1.0, body["yield"])
	assert.Contains(t, body["newlyUnlocked"], "first_click")

	// Inside the throttle window the click is dropped.
	rec, body = doJSON(t, app.Handler, http.MethodPost, "/api/game/click", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "throttled", body["result"])

	clock.Advance(time.Second)
	rec, body = doJSON(t, app.Handler, http.MethodGet, "/api/game/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, body["clickPower"])
	assert.Equal(t, "1", body["credsDisplay"])
	gameBody, ok := body["game"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.0, gameBody["creds"])
}

func TestTickAndBuyFlow(t *testing.T) {
	app, _ := newTestApp(t)

	// Not enough creds yet.
	rec, body := doJSON(t, app.Handler, http.MethodPost, "/api/game/generators/buy",
		map[string]string{"id": "bot_farm"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "insufficient_funds", body["result"])

	// Missing id is a bad request.
	rec, _ = doJSON(t, app.Handler, http.MethodPost, "/api/game/generators/buy",
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, app.Handler, http.MethodPost, "/api/game/tick",
		map[string]int64{"elapsedMs": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSlotLifecycleOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)

	rec, body := doJSON(t, app.Handler, http.MethodPost, "/api/slots/2/new", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2.0, body["created"])

	rec, _ = doJSON(t, app.Handler, http.MethodPost, "/api/slots/2/new", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, body = doJSON(t, app.Handler, http.MethodPost, "/api/slots/2/switch", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["switched"])

	rec, body = doJSON(t, app.Handler, http.MethodPost, "/api/slots/3/switch", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["switched"], "empty slot switch is a silent no-op")

	rec, body = doJSON(t, app.Handler, http.MethodGet, "/api/slots", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slots, ok := body["slots"].([]any)
	require.True(t, ok)
	assert.Len(t, slots, 2)

	rec, _ = doJSON(t, app.Handler, http.MethodPost, "/api/slots/2/delete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = doJSON(t, app.Handler, http.MethodPost, "/api/slots/2/delete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, app.Handler, http.MethodPost, "/api/slots/2/explode", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportImportOverHTTP(t *testing.T) {
	app, clock := newTestApp(t)

	_, _ = doJSON(t, app.Handler, http.MethodPost, "/api/game/click", nil)
	clock.Advance(time.Second)

	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/save/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	payload := rec.Body.String()

	req := httptest.NewRequest(http.MethodPost, "/api/save/import", strings.NewReader(payload))
	rec = httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/save/import", strings.NewReader("garbage"))
	rec = httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/save/diff", strings.NewReader(payload))
	rec = httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		Missing []string `json:"missing"`
		Extra   []string `json:"extra"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Empty(t, report.Missing)
	assert.Empty(t, report.Extra)
}

func TestAuthAndCloudSync(t *testing.T) {
	app, _ := newTestApp(t)
	srv := httptest.NewServer(app.Handler)
	defer srv.Close()

	rec, _ := doJSON(t, app.Handler, http.MethodPost, "/api/auth/register",
		map[string]string{"email": "alice@example.com", "password": "hunter2hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, app.Handler, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "alice@example.com", "password": "hunter2hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	// Cloud endpoints reject unauthenticated requests.
	rec, _ = doJSON(t, app.Handler, http.MethodGet, "/api/cloud/load", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	client := cloud.NewClient(srv.URL, token)
	ctx := context.Background()

	_, err := client.Load(ctx)
	assert.ErrorIs(t, err, cloud.ErrNoSave)

	payload, err := app.Manager.ExportActive()
	require.NoError(t, err)

	version, _, err := client.Save(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	rec2, err := client.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rec2.Version)
	assert.JSONEq(t, payload, string(rec2.SaveData))

	version, _, err = client.Save(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}
