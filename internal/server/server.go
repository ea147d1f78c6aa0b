// Package server exposes region indicators over HTTP: JSON endpoints, chart
// pages, workbook export, health and Prometheus metrics.
package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"CaseSignal/internal/calculator"
	"CaseSignal/internal/chart"
	"CaseSignal/internal/collector"
	"CaseSignal/internal/export"
	"CaseSignal/internal/metrics"
	"CaseSignal/internal/model"
	"CaseSignal/internal/pipeline"
	"CaseSignal/internal/region"
	"CaseSignal/internal/scheduler"
)

var errBadRequest = errors.New("bad request")

// Loader publishes a fresh snapshot on demand.
type Loader interface {
	LoadNow(trigger string) (*collector.Snapshot, error)
}

// Server holds the handler dependencies. Each request reads the current
// snapshot once and passes it through the pipeline.
type Server struct {
	Engine        *pipeline.Engine
	Holder        *collector.Holder
	Loader        Loader
	Params        pipeline.Params
	DefaultRegion string
	Metrics       *metrics.Metrics

	validate *validator.Validate
}

// New creates a Server. loader may be nil, which disables POST /api/refresh.
func New(engine *pipeline.Engine, holder *collector.Holder, loader Loader, params pipeline.Params, defaultRegion string, m *metrics.Metrics) *Server {
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Server{
		Engine:        engine,
		Holder:        holder,
		Loader:        loader,
		Params:        params,
		DefaultRegion: defaultRegion,
		Metrics:       m,
		validate:      validator.New(),
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	r.Get("/chart", s.handleChart)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/regions", s.handleRegions)
		r.Get("/indicators", s.handleIndicators)
		r.Get("/export.xlsx", s.handleExport)
		r.Post("/refresh", s.handleRefresh)
	})
	return r
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.Metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

type healthResponse struct {
	Status     string    `json:"status"`
	SnapshotID string    `json:"snapshot_id,omitempty"`
	Source     string    `json:"source,omitempty"`
	FetchedAt  time.Time `json:"fetched_at,omitempty"`
	FromCache  bool      `json:"from_cache"`
	Rows       int       `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.Holder.Current()
	if snap == nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, healthResponse{Status: "loading"})
		return
	}
	render.JSON(w, r, healthResponse{
		Status:     "ok",
		SnapshotID: snap.ID,
		Source:     snap.Source,
		FetchedAt:  snap.FetchedAt,
		FromCache:  snap.FromCache,
		Rows:       snap.Dataset().Len(),
	})
}

type regionsResponse struct {
	SnapshotID string   `json:"snapshot_id"`
	Default    string   `json:"default,omitempty"`
	Regions    []string `json:"regions"`
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	snap := s.Holder.Current()
	keys, err := s.Engine.Regions(snap)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, regionsResponse{SnapshotID: snap.ID, Default: s.DefaultRegion, Regions: keys})
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	b, err := s.bundle(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, b)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind := chart.KindLine
	if t := r.URL.Query().Get("type"); t != "" {
		k, err := chart.ParseKind(t)
		if err != nil {
			s.renderError(w, r, errors.Join(errBadRequest, err))
			return
		}
		kind = k
	}
	b, err := s.bundle(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.Render(w, b, kind); err != nil {
		log.Printf("[ERROR] render %s chart for %s: %v", kind, b.Region, err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	b, err := s.bundle(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="indicators.xlsx"`)
	if err := export.Write(w, b); err != nil {
		log.Printf("[ERROR] export %s: %v", b.Region, err)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.Loader == nil {
		render.Status(r, http.StatusNotImplemented)
		render.JSON(w, r, errorResponse{Error: "refresh not available", Code: "refresh_disabled"})
		return
	}
	snap, err := s.Loader.LoadNow(scheduler.TriggerManual)
	if err != nil {
		log.Printf("[ERROR] manual refresh: %v", err)
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, errorResponse{Error: err.Error(), Code: "refresh_failed"})
		return
	}
	render.JSON(w, r, healthResponse{
		Status:     "ok",
		SnapshotID: snap.ID,
		Source:     snap.Source,
		FetchedAt:  snap.FetchedAt,
		FromCache:  snap.FromCache,
		Rows:       snap.Dataset().Len(),
	})
}

// indicatorQuery holds the optional per-request overrides. Zero means
// "use the configured value".
type indicatorQuery struct {
	Region string `validate:"required,max=128"`
	Short  int    `validate:"omitempty,lte=1000"`
	Long   int    `validate:"omitempty,lte=1000"`
	Signal int    `validate:"omitempty,lte=1000"`
	RSI    []int  `validate:"omitempty,max=8,dive,lte=1000"`
}

func (s *Server) parseQuery(r *http.Request) (*indicatorQuery, error) {
	v := r.URL.Query()
	q := &indicatorQuery{Region: v.Get("region")}
	if q.Region == "" {
		q.Region = s.DefaultRegion
	}

	spans := []struct {
		name string
		dst  *int
	}{{"short", &q.Short}, {"long", &q.Long}, {"signal", &q.Signal}}
	for _, sp := range spans {
		name, dst := sp.name, sp.dst
		raw := v.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Join(errBadRequest, errors.New(name+": not an integer"))
		}
		if n < 1 {
			return nil, fmt.Errorf("%w: %s=%d", calculator.ErrInvalidPeriod, name, n)
		}
		*dst = n
	}
	if raw := v.Get("rsi"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, errors.Join(errBadRequest, errors.New("rsi: not an integer list"))
			}
			if n < 1 {
				return nil, fmt.Errorf("%w: rsi=%d", calculator.ErrInvalidPeriod, n)
			}
			q.RSI = append(q.RSI, n)
		}
	}

	if err := s.validate.Struct(q); err != nil {
		return nil, errors.Join(errBadRequest, err)
	}
	return q, nil
}

// params merges the query overrides into the configured parameters.
func (s *Server) params(q *indicatorQuery) pipeline.Params {
	p := s.Params
	if q.Short > 0 {
		p.MACD.Short = q.Short
	}
	if q.Long > 0 {
		p.MACD.Long = q.Long
	}
	if q.Signal > 0 {
		p.MACD.Signal = q.Signal
	}
	if len(q.RSI) > 0 {
		p.RSILengths = q.RSI
	}
	return p
}

func (s *Server) bundle(r *http.Request) (*model.IndicatorBundle, error) {
	q, err := s.parseQuery(r)
	if err != nil {
		return nil, err
	}
	p := s.params(q)
	if err := p.Validate(); err != nil {
		return nil, errors.Join(errBadRequest, err)
	}

	start := time.Now()
	b, err := s.Engine.Run(s.Holder.Current(), q.Region, p)
	s.Metrics.PipelineDur.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	s.Metrics.RSISubstitutions.Add(float64(b.Substitutions()))
	return b, nil
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, region.ErrRegionNotFound):
		return http.StatusNotFound, "region_not_found"
	case errors.Is(err, region.ErrAmbiguousRegion):
		return http.StatusConflict, "ambiguous_region"
	case errors.Is(err, calculator.ErrEmptySeries):
		return http.StatusUnprocessableEntity, "empty_series"
	case errors.Is(err, calculator.ErrMalformedCount):
		return http.StatusUnprocessableEntity, "malformed_count"
	case errors.Is(err, calculator.ErrInvalidPeriod):
		return http.StatusBadRequest, "invalid_period"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, pipeline.ErrNoSnapshot):
		return http.StatusServiceUnavailable, "not_loaded"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", r.Method, r.URL.Path, err)
	}
	msg := err.Error()
	if errors.Is(err, errBadRequest) {
		msg = strings.TrimPrefix(msg, errBadRequest.Error()+"\n")
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg, Code: code})
}
