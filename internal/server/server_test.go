package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikemajara/ai-chatbot/internal/capability"
	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/mikemajara/ai-chatbot/internal/scrape"
	"github.com/mikemajara/ai-chatbot/internal/server/handlers"
	"github.com/mikemajara/ai-chatbot/internal/server/resp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

const testKey = "s3cret"

type fakeStore struct {
	models  []model.CapabilityRecord
	readErr error
	writes  int
}

func (s *fakeStore) CurrentModels(context.Context) ([]model.CapabilityRecord, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := make([]model.CapabilityRecord, len(s.models))
	for i, m := range s.models {
		out[i] = model.CapabilityRecord{ID: m.ID, Capability: m.Capability.Clone()}
	}
	return out, nil
}

func (s *fakeStore) BulkUpsertCapabilities(_ context.Context, records []model.CapabilityRecord) (model.BulkResult, error) {
	s.writes++
	res := model.BulkResult{Total: len(records)}
	for _, r := range records {
		for i := range s.models {
			if s.models[i].ID == r.ID {
				s.models[i].Capability = r.Capability.Clone()
			}
		}
		res.Successful++
	}
	return res, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newEngine(t *testing.T, store *fakeStore, apiKey string, scraper *scrape.Scraper) *gin.Engine {
	t.Helper()
	mapping, err := capability.Default()
	require.NoError(t, err)
	engine, err := New(handlers.Deps{Store: store, Mapping: mapping, Scraper: scraper, APIKey: apiKey}, "https://app.example")
	require.NoError(t, err)
	return engine
}

func do(t *testing.T, engine *gin.Engine, method, target string, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func withKey() http.Header {
	return http.Header{"X-Api-Key": []string{testKey}}
}

func gpt4oStore() *fakeStore {
	return &fakeStore{models: []model.CapabilityRecord{{ID: "openai/gpt-4o"}}}
}

func TestSyncRequiresConfiguredKey(t *testing.T) {
	engine := newEngine(t, gpt4oStore(), "", nil)

	w, env := do(t, engine, http.MethodPost, "/api/v1/capabilities/sync", withKey())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, resp.ErrSyncKeyNotConfigured, env.Message)
}

func TestSyncRejectsBadKey(t *testing.T) {
	store := gpt4oStore()
	engine := newEngine(t, store, testKey, nil)

	for name, header := range map[string]http.Header{
		"missing":      {},
		"wrong":        {"X-Api-Key": []string{"nope"}},
		"wrong bearer": {"Authorization": []string{"Bearer nope"}},
		"not bearer":   {"Authorization": []string{"Basic " + testKey}},
	} {
		w, env := do(t, engine, http.MethodPost, "/api/v1/capabilities/sync", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.Equal(t, resp.ErrUnauthorized, env.Message, name)
	}
	assert.Zero(t, store.writes)
}

func TestSyncPreview(t *testing.T) {
	store := gpt4oStore()
	engine := newEngine(t, store, testKey, nil)

	w, env := do(t, engine, http.MethodGet, "/api/v1/capabilities/sync", withKey())

	require.Equal(t, http.StatusOK, w.Code)
	var report model.SyncReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, model.SyncModePreview, report.Mode)
	assert.Equal(t, 1, report.UpdatedCount)
	require.Len(t, report.UpdatedModels, 1)
	assert.Equal(t, 0.02, *report.UpdatedModels[0].PricingImageGen)
	assert.Zero(t, store.writes)

	w, env = do(t, engine, http.MethodPost, "/api/v1/capabilities/sync?preview=true", withKey())
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, model.SyncModePreview, report.Mode)
	assert.Zero(t, store.writes)

	w, _ = do(t, engine, http.MethodPost, "/api/v1/capabilities/sync?preview=maybe", withKey())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncApply(t *testing.T) {
	store := gpt4oStore()
	engine := newEngine(t, store, testKey, nil)
	bearer := http.Header{"Authorization": []string{"Bearer " + testKey}}

	w, env := do(t, engine, http.MethodPost, "/api/v1/capabilities/sync", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	var report model.SyncReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, model.SyncModeApply, report.Mode)
	assert.Equal(t, 1, report.UpdatedCount)
	assert.Equal(t, 1, store.writes)
	assert.WithinDuration(t, time.Now(), report.Timestamp, time.Minute)

	w, env = do(t, engine, http.MethodPost, "/api/v1/capabilities/sync", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 0, report.UpdatedCount)
	assert.Equal(t, 1, report.UnchangedCount)
	assert.Equal(t, 1, store.writes)
}

func TestSyncStoreFailure(t *testing.T) {
	engine := newEngine(t, &fakeStore{readErr: errors.New("connection refused")}, testKey, nil)

	w, env := do(t, engine, http.MethodPost, "/api/v1/capabilities/sync", withKey())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, env.Message, "model store unavailable")
	assert.Contains(t, env.Message, "connection refused")
}

func TestScrapePreview(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<table>
		<tr><td><a href="/ai-gateway/models/gemini-3-flash">Gemini 3 Flash</a></td><td>Image Gen $0.02</td></tr>
		</table>`))
	}))
	defer page.Close()

	store := &fakeStore{models: []model.CapabilityRecord{{ID: "google/gemini-3-flash"}, {ID: "openai/gpt-4o"}}}
	engine := newEngine(t, store, testKey, scrape.NewScraper(page.URL, page.Client()))

	w, env := do(t, engine, http.MethodGet, "/api/v1/capabilities/scrape", withKey())

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Report model.SyncReport   `json:"report"`
		Scrape model.ScrapeResult `json:"scrape"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "scrape", body.Report.Source)
	assert.Equal(t, 1, body.Report.InSource)
	assert.Equal(t, 1, body.Report.UpdatedCount)
	require.Len(t, body.Scrape.Models, 1)
	assert.Equal(t, "google/gemini-3-flash", body.Scrape.Models[0].ID)
	require.NotNil(t, body.Scrape.Models[0].PricingImageGen)
	assert.Equal(t, 0.02, *body.Scrape.Models[0].PricingImageGen)
	assert.NotNil(t, body.Scrape.Errors, "errors serialize as an empty list")
	assert.Empty(t, body.Scrape.Errors)
	assert.Zero(t, store.writes)
}

func TestScrapeWithoutScraper(t *testing.T) {
	engine := newEngine(t, gpt4oStore(), testKey, nil)
	w, env := do(t, engine, http.MethodGet, "/api/v1/capabilities/scrape", withKey())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, resp.ErrScraperUnavailable, env.Message)
}

func TestMapping(t *testing.T) {
	engine := newEngine(t, gpt4oStore(), testKey, nil)

	w, env := do(t, engine, http.MethodGet, "/api/v1/capabilities/mapping?capability=imageGen", withKey())
	require.Equal(t, http.StatusOK, w.Code)
	var ids []string
	require.NoError(t, json.Unmarshal(env.Data, &ids))
	assert.Contains(t, ids, "openai/gpt-4o")
	assert.NotContains(t, ids, "anthropic/claude-3.5-haiku")

	w, env = do(t, engine, http.MethodGet, "/api/v1/capabilities/mapping", withKey())
	require.Equal(t, http.StatusOK, w.Code)
	var entries []model.CapabilityRecord
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	assert.NotEmpty(t, entries)

	w, _ = do(t, engine, http.MethodGet, "/api/v1/capabilities/mapping?capability=video", withKey())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsUnauthenticated(t *testing.T) {
	engine := newEngine(t, gpt4oStore(), testKey, nil)
	w, _ := do(t, engine, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "capsync_records_updated_total")
}

func TestCors(t *testing.T) {
	engine := newEngine(t, gpt4oStore(), testKey, nil)

	w, _ := do(t, engine, http.MethodGet, "/api/v1/capabilities/sync", http.Header{
		"Origin":    []string{"https://app.example"},
		"X-Api-Key": []string{testKey},
	})
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	w, _ = do(t, engine, http.MethodGet, "/api/v1/capabilities/sync", http.Header{
		"Origin":    []string{"https://evil.example"},
		"X-Api-Key": []string{testKey},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
