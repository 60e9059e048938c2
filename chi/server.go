// Package chi exposes extraction and decoding over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/decode"
)

// Server defaults.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxBodyBytes   = 16 << 20
)

// ObserveFunc records one served request.
type ObserveFunc func(route, method string, status int, d time.Duration)

// KeyFunc derives a cache key for a URL-based extraction request.
type KeyFunc func(kind voygen.EnvelopeKind, pageURL string, req any) (string, error)

// Server serves the extraction API.
type Server struct {
	server *http.Server
	router *chi.Mux
	ln     net.Listener

	Addr string

	// Source snapshots pages for requests that carry only a URL. Parser
	// builds snapshots from HTML carried in the request.
	Source voygen.PageSource
	Parser voygen.PageParser

	Hotels voygen.HotelExtractor
	Facts  voygen.FactExtractor

	// Cache and CacheKey, when both set, serve repeated URL requests from cache.
	Cache    voygen.EnvelopeCache
	CacheKey KeyFunc

	Observe ObserveFunc
	Logger  *slog.Logger
}

// NewServer creates a Server with its routes and middleware installed.
func NewServer(logger *slog.Logger, observe ObserveFunc) *Server {
	s := &Server{
		server:  &http.Server{ReadHeaderTimeout: 10 * time.Second},
		router:  chi.NewRouter(),
		Addr:    DefaultAddr,
		Logger:  logger,
		Observe: observe,
	}

	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.instrument)
	s.router.Use(middleware.Timeout(DefaultRequestTimeout))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/extract/hotels", s.handleExtractHotels)
		r.Post("/extract/facts", s.handleExtractFacts)
		r.Post("/decode/hotels", s.handleDecodeHotels)
		r.Post("/decode/facts", s.handleDecodeFacts)
	})

	s.server.Handler = s.router
	return s
}

// Mount attaches an extra handler, such as /metrics.
func (s *Server) Mount(path string, h http.Handler) {
	s.router.Handle(path, h)
}

// ServeHTTP routes a request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open starts listening on Addr and serves in the background.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger().Error("server stopped", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL of a listening server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	addr := s.ln.Addr().(*net.TCPAddr)
	host := addr.IP.String()
	if addr.IP.IsUnspecified() {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(addr.Port))
}

// Close gracefully shuts down the server.
func (s *Server) Close(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// HotelsRequest is the body of POST /v1/extract/hotels. HTML, when set, is
// parsed instead of snapshotting URL.
type HotelsRequest struct {
	voygen.HotelRequest
	HTML string `json:"html,omitempty"`
}

// FactsRequest is the body of POST /v1/extract/facts.
type FactsRequest struct {
	voygen.FactRequest
	HTML string `json:"html,omitempty"`
}

// HotelsResponse is the body returned by POST /v1/decode/hotels.
type HotelsResponse struct {
	Hotels  []voygen.HotelDTO `json:"hotels"`
	Total   int               `json:"total"`
	Dropped int               `json:"dropped"`
}

// FactsResponse is the body returned by POST /v1/decode/facts.
type FactsResponse struct {
	Facts     []voygen.TravelFact `json:"facts"`
	Canonical []voygen.TravelFact `json:"canonical"`
	Total     int                 `json:"total"`
	Dropped   int                 `json:"dropped"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleExtractHotels(w http.ResponseWriter, r *http.Request) {
	var req HotelsRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.Hotels == nil {
		s.writeError(w, r, voygen.Errorf(voygen.EINTERNAL, "hotel extraction not configured"))
		return
	}
	env, err := s.extract(r.Context(), voygen.EnvelopeHotels, req.URL, req.HTML, req.HotelRequest, func(page *voygen.Page) *voygen.Envelope {
		return s.Hotels.ExtractHotels(r.Context(), page, req.HotelRequest)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleExtractFacts(w http.ResponseWriter, r *http.Request) {
	var req FactsRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.Facts == nil {
		s.writeError(w, r, voygen.Errorf(voygen.EINTERNAL, "facts extraction not configured"))
		return
	}
	env, err := s.extract(r.Context(), voygen.EnvelopeFacts, req.URL, req.HTML, req.FactRequest, func(page *voygen.Page) *voygen.Envelope {
		return s.Facts.ExtractFacts(r.Context(), page, req.FactRequest)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, env)
}

// extract obtains a snapshot and runs fn, consulting the cache for
// URL-only requests.
func (s *Server) extract(ctx context.Context, kind voygen.EnvelopeKind, pageURL, html string, args any, fn func(*voygen.Page) *voygen.Envelope) (*voygen.Envelope, error) {
	if strings.TrimSpace(html) != "" {
		if s.Parser == nil {
			return nil, voygen.Errorf(voygen.EINTERNAL, "HTML parsing not configured")
		}
		page, err := s.Parser.Parse(pageURL, html)
		if err != nil {
			return nil, err
		}
		return fn(page), nil
	}

	if strings.TrimSpace(pageURL) == "" {
		return nil, voygen.Errorf(voygen.EINVALID, "url or html required")
	}
	if s.Source == nil {
		return nil, voygen.Errorf(voygen.EINTERNAL, "page snapshots not configured")
	}

	var key string
	if s.Cache != nil && s.CacheKey != nil {
		if k, err := s.CacheKey(kind, pageURL, args); err == nil {
			key = k
			if env, err := s.Cache.Get(ctx, key); err == nil {
				return env, nil
			}
		}
	}

	page, err := s.Source.Page(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	env := fn(page)
	if key != "" {
		if err := s.Cache.Set(ctx, key, env); err != nil {
			s.logger().Warn("cache set failed", "url", pageURL, "err", err)
		}
	}
	return env, nil
}

func (s *Server) handleDecodeHotels(w http.ResponseWriter, r *http.Request) {
	var env voygen.Envelope
	if err := readJSON(w, r, &env); err != nil {
		s.writeError(w, r, err)
		return
	}
	hotels, stats, err := decode.HotelRows(&env)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, HotelsResponse{Hotels: hotels, Total: stats.Total, Dropped: stats.Dropped})
}

func (s *Server) handleDecodeFacts(w http.ResponseWriter, r *http.Request) {
	var env voygen.Envelope
	if err := readJSON(w, r, &env); err != nil {
		s.writeError(w, r, err)
		return
	}
	facts, stats, err := decode.TravelFacts(&env)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	canonical := voygen.CanonicalFacts(facts)
	if canonical == nil {
		canonical = []voygen.TravelFact{}
	}
	s.writeJSON(w, http.StatusOK, FactsResponse{Facts: facts, Canonical: canonical, Total: stats.Total, Dropped: stats.Dropped})
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, DefaultMaxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return voygen.Errorf(voygen.EINVALID, "request body required")
		}
		return voygen.Errorf(voygen.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger().Error("write response failed", "err", err)
	}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// codes maps error codes to HTTP status codes.
var codes = map[string]int{
	voygen.EINVALID:  http.StatusBadRequest,
	voygen.ENOTFOUND: http.StatusNotFound,
	voygen.EDECODE:   http.StatusUnprocessableEntity,
	voygen.EINTERNAL: http.StatusInternalServerError,
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := voygen.ErrorCode(err)
	status, ok := codes[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		s.logger().Error("request failed", "path", r.URL.Path, "err", err)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: voygen.ErrorMessage(err),
	})
}
