package httptransport

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks TurnService

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"patientbot/internal/bot"
	"patientbot/internal/patient/models"
	"patientbot/internal/platform/logger"
	"patientbot/internal/platform/metrics"
	"patientbot/internal/transport/http/mocks"
	"patientbot/internal/upstream"
	dErrors "patientbot/pkg/domain-errors"
	"patientbot/pkg/requestcontext"
	"patientbot/pkg/testutil"
)

type stubHealth struct{ err error }

func (s stubHealth) Health(context.Context) error { return s.err }

func newRouter(t *testing.T, turns TurnService, health HealthChecker) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.IncrementTurn(bot.RouteCollection)
	return NewRouter(NewHandler(turns, logger.Discard()), RouterConfig{
		Gatherer: reg,
		Health:   health,
		Logger:   logger.Discard(),
	})
}

func TestHandleMessage_HappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	turns := mocks.NewMockTurnService(ctrl)
	turns.EXPECT().
		HandleTurn(gomock.Any(), models.Turn{ConversationID: "conv-1", UserID: "user-1", Text: "hello"}).
		DoAndReturn(func(ctx context.Context, _ models.Turn) (*bot.Response, error) {
			assert.NotEmpty(t, requestcontext.RequestID(ctx))
			return &bot.Response{Messages: []string{"Enter patient's official name."}, Route: bot.RouteCollection}, nil
		}).
		Times(1)
	router := newRouter(t, turns, nil)

	rr := testutil.PostMessage(t, router, "conv-1", "user-1", "hello")

	testutil.AssertMessages(t, rr, "Enter patient's official name.")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestHandleMessage_EmptyRepliesRenderAsArray(t *testing.T) {
	ctrl := gomock.NewController(t)
	turns := mocks.NewMockTurnService(ctrl)
	turns.EXPECT().HandleTurn(gomock.Any(), gomock.Any()).Return(&bot.Response{}, nil)
	router := newRouter(t, turns, nil)

	rr := testutil.PostMessage(t, router, "c", "u", "")

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"messages":[]}`, rr.Body.String())
}

func TestHandleMessage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", dErrors.New(dErrors.CodeValidation, "user_id is required"), http.StatusBadRequest, "validation_error"},
		{"upstream unavailable", dErrors.New(dErrors.CodeUpstreamUnavailable, "a required service is unavailable"), http.StatusBadGateway, "upstream_unavailable"},
		{"upstream timeout", dErrors.New(dErrors.CodeTimeout, "a required service timed out"), http.StatusGatewayTimeout, "timeout"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			turns := mocks.NewMockTurnService(ctrl)
			turns.EXPECT().HandleTurn(gomock.Any(), gomock.Any()).Return(nil, tt.err)
			router := newRouter(t, turns, nil)

			rr := testutil.PostMessage(t, router, "c", "u", "yes")

			testutil.AssertError(t, rr, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestHandleMessage_CanceledTurnIsNotLoggedAsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	turns := mocks.NewMockTurnService(ctrl)
	turns.EXPECT().HandleTurn(gomock.Any(), gomock.Any()).
		Return(nil, upstream.Classify("observation_fetch", context.Canceled))
	logs := &bytes.Buffer{}
	log := logger.NewWithWriter(logs, slog.LevelDebug)
	router := NewRouter(NewHandler(turns, log), RouterConfig{Gatherer: prometheus.NewRegistry(), Logger: log})

	rr := testutil.PostMessage(t, router, "c", "u", "weight")

	testutil.AssertError(t, rr, http.StatusInternalServerError, "internal_error")
	assert.Contains(t, logs.String(), "turn canceled by client")
	assert.NotContains(t, logs.String(), "turn failed")
}

func TestHandleMessage_RejectsMalformedRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	turns := mocks.NewMockTurnService(ctrl)
	turns.EXPECT().HandleTurn(gomock.Any(), gomock.Any()).Times(0)
	router := newRouter(t, turns, nil)

	t.Run("malformed json", func(t *testing.T) {
		req := testutil.NewRawRequest(t, http.MethodPost, testutil.MessagesPath, "application/json", `{"text":`)
		testutil.AssertError(t, testutil.DoRequest(router, req), http.StatusBadRequest, "bad_request")
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := testutil.NewRawRequest(t, http.MethodPost, testutil.MessagesPath, "application/x-www-form-urlencoded", `text=hi`)
		testutil.AssertError(t, testutil.DoRequest(router, req), http.StatusUnsupportedMediaType, "bad_request")
	})

	t.Run("wrong method", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, testutil.MessagesPath))
		testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	t.Run("healthy without dependencies", func(t *testing.T) {
		router := newRouter(t, nil, nil)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		testutil.AssertJSONField(t, rr, "status", "ok")
	})

	t.Run("unhealthy when the session store is down", func(t *testing.T) {
		router := newRouter(t, nil, stubHealth{err: errors.New("connection refused")})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		router := newRouter(t, nil, nil)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		require.Contains(t, rr.Body.String(), `patientbot_turns_total{route="collection"} 1`)
	})
}
