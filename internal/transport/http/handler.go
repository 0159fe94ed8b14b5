package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"patientbot/internal/bot"
	"patientbot/internal/patient/models"
	"patientbot/internal/platform/middleware"
	dErrors "patientbot/pkg/domain-errors"
	"patientbot/pkg/platform/httputil"
)

const (
	maxMessageBytes = 64 << 10
	turnTimeout     = 30 * time.Second
)

// TurnService handles one conversational turn.
type TurnService interface {
	HandleTurn(ctx context.Context, turn models.Turn) (*bot.Response, error)
}

// MessageRequest is one inbound chat message.
type MessageRequest struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	Text           string `json:"text"`
}

// MessageResponse carries the bot's replies in send order.
type MessageResponse struct {
	Messages []string `json:"messages"`
}

// Handler serves the turn endpoint.
type Handler struct {
	logger *slog.Logger
	turns  TurnService
}

// NewHandler creates a turn Handler.
func NewHandler(turns TurnService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, turns: turns}
}

// Register mounts the turn routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.RequestTime)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(turnTimeout))
		r.Use(middleware.ContentTypeJSON)
		r.Post("/api/messages", h.handleMessage)
	})
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req MessageRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes))
	if err := dec.Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid message request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.turns.HandleTurn(ctx, models.Turn{
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
		Text:           req.Text,
	})
	if err != nil {
		h.logTurnError(ctx, err)
		httputil.WriteError(w, err)
		return
	}

	messages := resp.Messages
	if messages == nil {
		messages = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Messages: messages})
}

func (h *Handler) logTurnError(ctx context.Context, err error) {
	requestID := middleware.GetRequestID(ctx)
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		h.logger.WarnContext(ctx, "turn rejected",
			"request_id", requestID,
			"error", err.Error(),
		)
	case dErrors.CodeUpstreamUnavailable, dErrors.CodeTimeout:
		// already logged with the upstream category
	default:
		if errors.Is(err, context.Canceled) {
			h.logger.InfoContext(ctx, "turn canceled by client", "request_id", requestID)
			return
		}
		h.logger.ErrorContext(ctx, "turn failed",
			"request_id", requestID,
			"error", err.Error(),
		)
	}
}
