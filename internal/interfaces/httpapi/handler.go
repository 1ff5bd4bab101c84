package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/prometheus/internal/platform/logging"
	"github.com/riskibarqy/prometheus/internal/usecase"
)

// Defaults are applied to queries that leave a setting out.
type Defaults struct {
	StatSource     string
	MinimumMatches int
	Features       []string
}

type Handler struct {
	rankingService *usecase.RankingService
	weightsService *usecase.WeightsService
	defaults       Defaults
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	rankingService *usecase.RankingService,
	weightsService *usecase.WeightsService,
	logger *logging.Logger,
	defaults Defaults,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rankingService: rankingService,
		weightsService: weightsService,
		defaults:       defaults,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// fail writes err to the client. Unmapped errors are logged and reported
// without their message.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	status := mapError(ctx, err).HTTPStatus
	switch {
	case status == http.StatusInternalServerError:
		h.logger.ErrorContext(ctx, msg, "error", err)
		writeInternalError(ctx, w)
		return
	case status > http.StatusInternalServerError:
		h.logger.ErrorContext(ctx, msg, "error", err)
	default:
		h.logger.DebugContext(ctx, msg, "error", err)
	}
	writeError(ctx, w, err)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
