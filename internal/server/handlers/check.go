package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/errors"
	"go.uber.org/zap"

	"github.com/jidcheck/jidcheck/internal/core"
	"github.com/jidcheck/jidcheck/internal/core/confusable"
	"github.com/jidcheck/jidcheck/internal/core/report"
	apperrors "github.com/jidcheck/jidcheck/internal/errors"
	"github.com/jidcheck/jidcheck/internal/metrics"
	"github.com/jidcheck/jidcheck/internal/observability"
	"github.com/jidcheck/jidcheck/internal/output"
	"github.com/jidcheck/jidcheck/internal/server/middleware"
)

// DefaultMaxBodyBytes caps POST /v1/check bodies.
const DefaultMaxBodyBytes int64 = 16 << 10

// CheckRequest is the POST /v1/check body. GET uses the same names as
// query parameters.
type CheckRequest struct {
	ID     string `json:"id"`
	Locale string `json:"locale,omitempty"`
	Markup string `json:"markup,omitempty"`
}

// CheckHandler serves identifier checks over HTTP.
type CheckHandler struct {
	MaxLength    int
	Locale       string
	MaxBodyBytes int64
}

// NewCheckHandler returns a handler enforcing maxLength and defaulting
// report wording to locale.
func NewCheckHandler(maxLength int, locale string) *CheckHandler {
	return &CheckHandler{
		MaxLength:    maxLength,
		Locale:       locale,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

func (h *CheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(w, r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	reporter, err := h.reporter(r, req)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	input, err := core.NormalizeInput(req.ID, h.MaxLength)
	if err != nil {
		metrics.RecordRejection(metrics.SourceAPI, apperrors.InputPolicyReason(err))
		respondWithError(w, r, apperrors.WrapInputPolicy(r.Context(), err, h.MaxLength))
		return
	}

	start := time.Now()
	result := confusable.Check(input)
	metrics.RecordCheck(metrics.SourceAPI, len(result.Flagged), time.Since(start))

	if logger := observability.ServerLogger; logger != nil {
		logger.Debug("Checked identifier",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Int("length", len([]rune(input))),
			zap.Int("flagged", len(result.Flagged)))
	}

	respondJSON(w, http.StatusOK, output.NewCheckView(result, reporter.Format(input, result)))
}

func (h *CheckHandler) decode(w http.ResponseWriter, r *http.Request) (CheckRequest, error) {
	if r.Method == http.MethodGet {
		query := r.URL.Query()
		return CheckRequest{
			ID:     query.Get("id"),
			Locale: query.Get("locale"),
			Markup: query.Get("markup"),
		}, nil
	}

	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	var req CheckRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := decoder.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			envelope := errors.NewErrorEnvelope(apperrors.CodeRequestBodyTooLarge, "request body is too large").
				WithDetails(map[string]interface{}{"limit_bytes": limit})
			return req, apperrors.EnsureCorrelationID(envelope, r.Context())
		}
		return req, apperrors.WrapInvalidInput(r.Context(), err, "request body must be a JSON object")
	}
	return req, nil
}

func (h *CheckHandler) reporter(r *http.Request, req CheckRequest) (*report.Reporter, error) {
	locale := strings.ToLower(strings.TrimSpace(req.Locale))
	if locale == "" {
		locale = h.Locale
	}
	if locale != "" && !report.SupportedLocale(locale) {
		envelope := errors.NewErrorEnvelope(apperrors.CodeUnsupportedLocale, "unsupported locale: "+req.Locale).
			WithDetails(map[string]interface{}{
				"supported": []string{report.LocaleRU, report.LocaleEN},
			})
		return nil, apperrors.EnsureCorrelationID(envelope, r.Context())
	}

	markup, err := report.ParseMarkup(req.Markup)
	if err != nil {
		envelope := errors.NewErrorEnvelope(apperrors.CodeUnsupportedMarkup, err.Error()).
			WithDetails(map[string]interface{}{
				"supported": []string{report.MarkupHTML, report.MarkupMarkdown, report.MarkupPlain},
			})
		return nil, apperrors.EnsureCorrelationID(envelope, r.Context())
	}

	return report.New(markup, report.MessagesFor(locale)), nil
}
