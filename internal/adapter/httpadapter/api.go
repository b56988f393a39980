package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/floodwatch/internal/assess"
	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/locale"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"
)

const maxAnalyzeBody = 4 << 20

// Assessor scores one request.
type Assessor interface {
	Assess(ctx context.Context, req domain.AssessmentRequest, source string) (domain.Assessment, error)
}

// API serves the /v1 risk routes.
type API struct {
	assessor        Assessor
	searcher        domain.LocationSearcher
	defaultLanguage locale.Language
	options         domain.Options
	logger          *slog.Logger
}

// NewAPI creates the risk API. searcher may be nil, which disables
// /v1/locations.
func NewAPI(assessor Assessor, searcher domain.LocationSearcher, defaultLanguage locale.Language, options domain.Options, logger *slog.Logger) *API {
	return &API{
		assessor:        assessor,
		searcher:        searcher,
		defaultLanguage: defaultLanguage,
		options:         options,
		logger:          logger,
	}
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/risk", a.handleRisk)
	mux.HandleFunc("POST /v1/analyze", a.handleAnalyze)
	mux.HandleFunc("GET /v1/locations", a.handleLocations)
}

// handleRisk assesses ?city=&country= or ?lat=&lon=, with optional ?lang=.
func (a *API) handleRisk(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := domain.AssessmentRequest{
		ID:       uuid.NewString(),
		City:     strings.TrimSpace(q.Get("city")),
		Country:  strings.TrimSpace(q.Get("country")),
		Language: q.Get("lang"),
	}

	var err error
	if req.Latitude, err = parseCoordinate(q.Get("lat")); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid lat: %w", err))
		return
	}
	if req.Longitude, err = parseCoordinate(q.Get("lon")); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid lon: %w", err))
		return
	}

	assessment, err := a.assessor.Assess(r.Context(), req, assess.SourceHTTP)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			a.logger.Error("assessment failed", "request_id", req.ID, "error", err)
		}
		writeError(w, status, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, assessment)
}

// AnalyzeRequest is the body of POST /v1/analyze: Open-Meteo payloads scored
// without any upstream calls.
type AnalyzeRequest struct {
	Weather domain.RawWeather `json:"weather"`
	Flood   *domain.RawFlood  `json:"flood,omitempty"`
	Lang    string            `json:"lang,omitempty"`
	Now     *time.Time        `json:"now,omitempty"`
}

func (a *API) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body AnalyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBody))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	var flood *domain.FloodSeries
	if body.Flood != nil {
		flood = domain.NewFloodSeries(*body.Flood)
	}
	now := domain.Now()
	if body.Now != nil {
		now = *body.Now
	}
	lang := body.Lang
	if lang == "" {
		lang = string(a.defaultLanguage)
	}

	analysis := a.options.Analyze(domain.NewWeatherSeries(body.Weather), flood, locale.Parse(lang), now)
	sharedobs.WriteJSON(w, http.StatusOK, analysis)
}

// handleLocations lists places matching ?q=. An upstream failure yields an
// empty list.
func (a *API) handleLocations(w http.ResponseWriter, r *http.Request) {
	if a.searcher == nil {
		writeError(w, http.StatusNotImplemented, errors.New("location search is not configured"))
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = string(a.defaultLanguage)
	}
	results, err := a.searcher.Search(r.Context(), r.URL.Query().Get("q"), string(locale.Parse(lang)))
	if err != nil {
		a.logger.Warn("location search failed", "error", err)
		results = []domain.Location{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"results": results})
}

func parseCoordinate(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
