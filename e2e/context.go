package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"

	"patientbot/internal/bot"
	"patientbot/internal/intent"
	"patientbot/internal/observation"
	"patientbot/internal/patient/models"
	"patientbot/internal/patient/recordstore"
	"patientbot/internal/platform/logger"
	"patientbot/internal/platform/metrics"
	"patientbot/internal/session/store"
	httptransport "patientbot/internal/transport/http"
	"patientbot/internal/workflow"
)

const upstreamTimeout = 2 * time.Second

// TestContext runs the whole service in process, with fake record store
// and observation services behind real HTTP servers.
type TestContext struct {
	app         http.Handler
	sessions    *store.InMemoryStore
	recordStore *httptest.Server
	fetchTool   *httptest.Server

	mu           sync.Mutex
	records      []models.CandidateRecord
	recordCalls  int
	observations string
	fetchCalls   int
	lastFetch    map[string]any

	lastStatus   int
	lastMessages []string
}

func (tc *TestContext) start() {
	tc.records = nil
	tc.recordCalls = 0
	tc.observations = `{"category":"","observations":[]}`
	tc.fetchCalls = 0
	tc.lastFetch = nil
	tc.lastStatus = 0
	tc.lastMessages = nil

	tc.recordStore = httptest.NewServer(http.HandlerFunc(tc.serveRecords))
	tc.fetchTool = httptest.NewServer(http.HandlerFunc(tc.serveObservations))

	log := logger.Discard()
	m := metrics.New(prometheus.NewRegistry())
	tc.sessions = store.NewInMemory(time.Hour)

	records := recordstore.New(tc.recordStore.URL, upstreamTimeout, recordstore.WithLogger(log))
	fetcher := observation.NewClient(tc.fetchTool.URL, "https://fhir.example.test", upstreamTimeout,
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}),
		observation.WithLogger(log),
	)
	collector := workflow.New(tc.sessions, tc.sessions, records,
		workflow.WithLogger(log),
		workflow.WithMetrics(m),
	)
	service := bot.New(tc.sessions, collector, intent.NewKeywordRecognizer(), observation.NewDispatcher(fetcher, log),
		bot.WithLogger(log),
		bot.WithMetrics(m),
	)
	tc.app = httptransport.NewRouter(httptransport.NewHandler(service, log), httptransport.RouterConfig{Logger: log})
}

func (tc *TestContext) stop() {
	tc.recordStore.Close()
	tc.fetchTool.Close()
}

func (tc *TestContext) serveRecords(w http.ResponseWriter, _ *http.Request) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.recordCalls++

	bundle := models.Bundle{ResourceType: "Bundle", Type: "searchset"}
	for i := range tc.records {
		bundle.Entry = append(bundle.Entry, models.BundleEntry{Resource: &tc.records[i]})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode([]models.Bundle{bundle})
}

func (tc *TestContext) serveObservations(w http.ResponseWriter, r *http.Request) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.fetchCalls++

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tc.lastFetch = body
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(tc.observations))
}

func (tc *TestContext) Send(conversationID, userID, text string) error {
	payload, err := json.Marshal(httptransport.MessageRequest{
		ConversationID: conversationID,
		UserID:         userID,
		Text:           text,
	})
	if err != nil {
		return err
	}
	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	tc.app.ServeHTTP(rr, req)

	tc.lastStatus = rr.Code
	tc.lastMessages = nil
	if rr.Code != http.StatusOK {
		return nil
	}
	var resp httptransport.MessageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		return err
	}
	tc.lastMessages = resp.Messages
	return nil
}

func (tc *TestContext) LastStatus() int { return tc.lastStatus }

func (tc *TestContext) LastMessages() []string { return tc.lastMessages }

func (tc *TestContext) SetRecords(records ...models.CandidateRecord) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.records = append(tc.records, records...)
}

func (tc *TestContext) SetObservations(body string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.observations = body
}

func (tc *TestContext) SaveProfile(userID string, profile *models.Profile) error {
	return tc.sessions.SaveProfile(context.Background(), userID, profile)
}

func (tc *TestContext) LoadProfile(userID string) (*models.Profile, error) {
	return tc.sessions.LoadProfile(context.Background(), userID)
}

func (tc *TestContext) LastFetch() (patientID, category string, calls int) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	patientID, _ = tc.lastFetch["pid"].(string)
	category, _ = tc.lastFetch["type"].(string)
	return patientID, category, tc.fetchCalls
}

func (tc *TestContext) RecordStoreCalls() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.recordCalls
}
