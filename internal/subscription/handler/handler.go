// Package handler is the thin HTTP layer over the subscription service. It
// owns form decoding and error-to-status translation; business rules live in
// the service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"newsletter/internal/platform/metrics"
	"newsletter/internal/platform/middleware"
	dErrors "newsletter/pkg/domain-errors"
	"newsletter/pkg/platform/httputil"
)

// Service defines the subscription operations the handler depends on.
type Service interface {
	SignUp(ctx context.Context, rawName, rawEmail string) error
	Confirm(ctx context.Context, token string) error
}

// Handler handles the subscription endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
	metrics *metrics.Metrics
}

// New creates a subscription Handler.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		metrics: m,
	}
}

// Register registers the subscription routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	sub := chi.NewRouter()
	sub.Use(middleware.Recovery(h.logger))
	sub.Use(middleware.RequestID)
	sub.Use(middleware.Logger(h.logger))
	sub.Use(middleware.Timeout(30 * time.Second))
	sub.Use(middleware.Latency(h.metrics))
	sub.Post("/subscriptions", h.handleSubscribe)
	sub.Get("/subscriptions/confirm/{token}", h.handleConfirm)
	sub.Get("/health_check", h.handleHealthCheck)

	r.Mount("/", sub)
}

// handleSubscribe accepts a form-urlencoded sign-up. A structurally missing
// field is 422; a present field that fails domain validation is 400.
func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(ctx, "unparseable subscription form",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnprocessable, "request body is not a valid form"))
		return
	}
	if !r.PostForm.Has("name") || !r.PostForm.Has("email") {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnprocessable, "form fields name and email are required"))
		return
	}

	err := h.service.SignUp(ctx, r.PostForm.Get("name"), r.PostForm.Get("email"))
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "invalid sign-up input",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "sign-up failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "sign-up failed"))
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleConfirm redeems a confirmation token from the path.
func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	token := chi.URLParam(r, "token")

	err := h.service.Confirm(ctx, token)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeUnauthorized) {
			h.logger.WarnContext(ctx, "unknown confirmation token",
				"request_id", requestID,
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "confirmation failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "confirmation failed"))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
