// Package chi exposes the site's JSON API over a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/neuroscape/nicsite/internal/domain"
	"github.com/neuroscape/nicsite/internal/domain/manifest"
	domprefs "github.com/neuroscape/nicsite/internal/domain/prefs"
	"github.com/neuroscape/nicsite/internal/domain/scanrequest"
	"github.com/neuroscape/nicsite/internal/domain/sitesearch"
	"github.com/neuroscape/nicsite/internal/notify"
	draftinguc "github.com/neuroscape/nicsite/internal/usecase/drafting"
	healthuc "github.com/neuroscape/nicsite/internal/usecase/health"
	prefsuc "github.com/neuroscape/nicsite/internal/usecase/prefs"
	searchuc "github.com/neuroscape/nicsite/internal/usecase/search"
	"github.com/neuroscape/nicsite/internal/usecase/sitemap"
	"github.com/neuroscape/nicsite/internal/usecase/submitting"
)

// Error response codes.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeSubmissionInFlight = "submission_in_flight"
	codeMailDeliveryFailed = "mail_delivery_failed"
	codeManifestLoadFailed = "manifest_load_failed"
	codeNotFound           = "not_found"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string, notices []notify.Notice) bool

// Server handles the site API.
type Server struct {
	sitemap       *sitemap.Service
	search        *searchuc.Service
	drafts        *draftinguc.Service
	prefs         *prefsuc.Service
	submit        *submitting.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	sitemapSvc *sitemap.Service,
	searchSvc *searchuc.Service,
	drafts *draftinguc.Service,
	prefsSvc *prefsuc.Service,
	submit *submitting.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		sitemap: sitemapSvc,
		search:  searchSvc,
		drafts:  drafts,
		prefs:   prefsSvc,
		submit:  submit,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		silentHandler(domain.ErrBotDetected),
		silentHandler(domain.ErrSubmissionInFlight, withStatus(http.StatusConflict, codeSubmissionInFlight)),
		sentinelHandler(domain.ErrValidationFailed, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrMailUnreachable, http.StatusBadGateway, codeMailDeliveryFailed),
		sentinelHandler(domain.ErrMailConfig, http.StatusBadGateway, codeMailDeliveryFailed),
		sentinelHandler(domain.ErrMailTemplate, http.StatusBadGateway, codeMailDeliveryFailed),
		sentinelHandler(domain.ErrMailAuth, http.StatusBadGateway, codeMailDeliveryFailed),
		sentinelHandler(domain.ErrMailDelivery, http.StatusBadGateway, codeMailDeliveryFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
	}
	return s
}

// Routes builds the API router. Client-scoped routes run behind the
// client ID middleware; health and metrics stay outside it.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Use(ClientIDMiddleware())

		r.Get("/search", s.Search)
		r.Get("/search/recent", s.RecentSearches)
		r.Post("/search/replay", s.ReplaySearch)

		r.Get("/draft", s.GetDraft)
		r.Put("/draft", s.SaveDraft)
		r.Delete("/draft", s.DeleteDraft)

		r.Get("/preferences", s.GetPreferences)
		r.Put("/preferences", s.UpdatePreferences)
		r.Get("/theme", s.GetTheme)
		r.Post("/theme/toggle", s.ToggleTheme)

		r.Post("/requests", s.SubmitRequest)

		r.Get("/manifest", s.GetManifest)
		r.Post("/manifest/reload", s.ReloadManifest)
	})

	return r
}

// --- Search ---

type searchResultItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
	Category    string `json:"category"`
}

type searchResponse struct {
	Active  bool               `json:"active"`
	Query   string             `json:"query"`
	Results []searchResultItem `json:"results"`
}

func searchToResponse(res searchuc.Result) searchResponse {
	return searchResponse{
		Active:  res.Active(),
		Query:   res.Query(),
		Results: recordsToItems(res.Records()),
	}
}

func recordsToItems(records []sitesearch.Record) []searchResultItem {
	items := make([]searchResultItem, len(records))
	for i := range records {
		items[i] = searchResultItem{
			Title:       records[i].Title(),
			Description: records[i].Description(),
			File:        records[i].File(),
			Category:    records[i].Category(),
		}
	}
	return items
}

// Search handles GET /api/search?q=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	res, err := s.search.Query(r.Context(), ClientIDFromContext(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, searchToResponse(res))
}

// RecentSearches handles GET /api/search/recent.
func (s *Server) RecentSearches(w http.ResponseWriter, r *http.Request) {
	queries, err := s.search.Recent(r.Context(), ClientIDFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"queries": queries})
}

// ReplaySearch handles POST /api/search/replay.
func (s *Server) ReplaySearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.search.Replay(r.Context(), ClientIDFromContext(r.Context()), req.Query)
	if err != nil {
		s.handleDomainError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, searchToResponse(res))
}

// --- Draft ---

// GetDraft handles GET /api/draft.
func (s *Server) GetDraft(w http.ResponseWriter, r *http.Request) {
	fields, err := s.drafts.Get(r.Context(), ClientIDFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err, nil)
		return
	}
	if fields == nil {
		fields = scanrequest.Fields{}
	}
	writeJSON(w, http.StatusOK, map[string]scanrequest.Fields{"fields": fields})
}

// SaveDraft handles PUT /api/draft.
func (s *Server) SaveDraft(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	if err := s.drafts.Save(r.Context(), ClientIDFromContext(r.Context()), fields); err != nil {
		s.handleDomainError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteDraft handles DELETE /api/draft.
func (s *Server) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.drafts.Clear(r.Context(), ClientIDFromContext(r.Context())); err != nil {
		s.handleDomainError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Preferences and theme ---

type prefsResponse struct {
	Theme         string `json:"theme"`
	FontSize      string `json:"fontSize"`
	ReducedMotion bool   `json:"reducedMotion"`
}

func (s *Server) prefsToResponse(r *http.Request, p domprefs.Preferences) (prefsResponse, error) {
	theme, err := s.prefs.Theme(r.Context(), ClientIDFromContext(r.Context()))
	if err != nil {
		return prefsResponse{}, err
	}
	return prefsResponse{
		Theme:         string(theme),
		FontSize:      p.FontSize,
		ReducedMotion: p.ReducedMotion,
	}, nil
}

// GetPreferences handles GET /api/preferences.
func (s *Server) GetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := s.prefs.Preferences(r.Context(), ClientIDFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err, nil)
		return
	}
	resp, err := s.prefsToResponse(r, p)
	if err != nil {
		s.handleDomainError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdatePreferences handles PUT /api/preferences. Absent fields are left
// unchanged; the response carries the merged result.
func (s *Server) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FontSize      *string `json:"fontSize"`
		ReducedMotion *bool   `json:"reducedMotion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := s.prefs.Update(r.Context(), ClientIDFromContext(r.Context()), domprefs.Update{
		FontSize:      req.FontSize,
		ReducedMotion: req.ReducedMotion,
	})
	if err != nil {
		s.handleDomainError(w, err, nil)
		return
	}
	resp, err := s.prefsToResponse(r, p)
	if err != nil {
		s.handleDomainError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type themeResponse struct {
	Theme   string          `json:"theme"`
	Notices []notify.Notice `json:"notices,omitempty"`
}

// GetTheme handles GET /api/theme.
func (s *Server) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.prefs.Theme(r.Context(), ClientIDFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: string(theme)})
}

// ToggleTheme handles POST /api/theme/toggle.
func (s *Server) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	collector := &notify.Collector{}
	theme, err := s.prefs.ToggleTheme(r.Context(), ClientIDFromContext(r.Context()), collector)
	if err != nil {
		s.handleDomainError(w, err, collector.Notices())
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: string(theme), Notices: collector.Notices()})
}

// --- Scan requests ---

type submitResponse struct {
	Reference string          `json:"reference"`
	Notices   []notify.Notice `json:"notices,omitempty"`
}

// SubmitRequest handles POST /api/requests.
func (s *Server) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	collector := &notify.Collector{}
	out, err := s.submit.Submit(r.Context(), ClientIDFromContext(r.Context()), fields, collector)
	if err != nil {
		s.handleDomainError(w, err, collector.Notices())
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{
		Reference: out.Reference(),
		Notices:   collector.Notices(),
	})
}

// decodeFields reads a flat JSON object of string form fields.
func decodeFields(w http.ResponseWriter, r *http.Request) (scanrequest.Fields, bool) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	return scanrequest.Fields(fields), true
}

// --- Manifest ---

type manifestPage struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
}

type manifestCategory struct {
	Category string         `json:"category"`
	Pages    []manifestPage `json:"pages"`
}

// GetManifest handles GET /api/manifest.
func (s *Server) GetManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]manifestCategory{
		"categories": manifestToCategories(s.sitemap.Manifest()),
	})
}

func manifestToCategories(m manifest.Manifest) []manifestCategory {
	cats := make([]manifestCategory, len(m.Categories()))
	for i, c := range m.Categories() {
		pages := make([]manifestPage, len(c.Pages()))
		for j, p := range c.Pages() {
			pages[j] = manifestPage{Title: p.Title(), Description: p.Description(), File: p.File()}
		}
		cats[i] = manifestCategory{Category: c.Name(), Pages: pages}
	}
	return cats
}

// ReloadManifest handles POST /api/manifest/reload.
func (s *Server) ReloadManifest(w http.ResponseWriter, r *http.Request) {
	if err := s.sitemap.Load(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, codeManifestLoadFailed, "Failed to load site content")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Health and metrics ---

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- Error mapping ---

type errorResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Notices []notify.Notice `json:"notices,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrValidationFailed,
		domain.ErrSubmissionInFlight,
		domain.ErrMailConfig,
		domain.ErrMailTemplate,
		domain.ErrMailAuth,
		domain.ErrMailUnreachable,
		domain.ErrMailDelivery,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string, notices []notify.Notice) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeJSON(w, status, errorResponse{Code: code, Message: msg, Notices: notices})
		return true
	}
}

type silentOption func(w http.ResponseWriter, msg string)

func withStatus(status int, code string) silentOption {
	return func(w http.ResponseWriter, msg string) {
		writeJSON(w, status, errorResponse{Code: code, Message: msg})
	}
}

// silentHandler responds without revealing anything useful. With no
// option it writes an empty 204, which is what a bot probing the form
// gets; the in-flight variant carries a 409 and a code but no notices.
func silentHandler(sentinel error, opts ...silentOption) errorHandler {
	return func(w http.ResponseWriter, err error, msg string, _ []notify.Notice) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		if len(opts) > 0 {
			opts[0](w, msg)
			return true
		}
		w.WriteHeader(http.StatusNoContent)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error, notices []notify.Notice) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg, notices) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
