// Package server is the inbound side of the bot: the Telegram webhook, a liveness page and
// a small read-only JSON api with the scheduler state and recent deliveries.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/newscast/pkg/domain"
	"github.com/umputun/newscast/pkg/telegram"
)

//go:generate moq -out mocks/commands.go -pkg mocks -skip-ensure -fmt goimports . Commands
//go:generate moq -out mocks/callbacks.go -pkg mocks -skip-ensure -fmt goimports . Callbacks
//go:generate moq -out mocks/status.go -pkg mocks -skip-ensure -fmt goimports . StatusProvider
//go:generate moq -out mocks/journal.go -pkg mocks -skip-ensure -fmt goimports . Journal

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Commands executes admin messages, one reply per call
type Commands interface {
	Handle(ctx context.Context, operatorID, chatID int64, text string) error
}

// Callbacks acknowledges inline button presses
type Callbacks interface {
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// StatusProvider gives the scheduler state
type StatusProvider interface {
	Status() domain.Status
}

// Journal lists recent delivery attempts
type Journal interface {
	Recent(ctx context.Context, since time.Time, limit int) ([]domain.Delivery, error)
	Ping(ctx context.Context) error
}

// Params defines server dependencies and settings
type Params struct {
	Listen        string
	Timeout       time.Duration
	WebhookSecret string
	QueueSize     int
	Version       string
	Debug         bool

	Commands  Commands
	Callbacks Callbacks
	Status    StatusProvider
	Journal   Journal
}

// Server represents HTTP server instance
type Server struct {
	listen        string
	timeout       time.Duration
	webhookSecret string
	version       string
	debug         bool

	commands  Commands
	callbacks Callbacks
	status    StatusProvider
	journal   Journal

	updates chan telegram.Update

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// New initializes a new server instance
func New(p Params) *Server {
	if p.QueueSize <= 0 {
		p.QueueSize = 100
	}
	if p.Timeout <= 0 {
		p.Timeout = 30 * time.Second
	}
	s := &Server{
		listen:        p.Listen,
		timeout:       p.Timeout,
		webhookSecret: p.WebhookSecret,
		version:       p.Version,
		debug:         p.Debug,
		commands:      p.Commands,
		callbacks:     p.Callbacks,
		status:        p.Status,
		journal:       p.Journal,
		updates:       make(chan telegram.Update, p.QueueSize),
		router:        routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Run starts the update worker and the HTTP server, both stop when ctx is canceled
func (s *Server) Run(ctx context.Context) error {
	lgr.Printf("[INFO] starting server on %s", s.listen)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.timeout,
		ReadTimeout:       s.timeout,
		WriteTimeout:      s.timeout,
	}
	s.lock.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.processUpdates(ctx)
	}()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	err := s.httpServer.ListenAndServe()
	cancel()
	wg.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newscast", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.rootHandler)
	s.router.HandleFunc("POST /{$}", s.webhookHandler)
	s.router.HandleFunc("POST /webhook", s.webhookHandler)

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /deliveries", s.deliveriesHandler)
	})
}

func (s *Server) rootHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("newscast is running"))
}

// webhookHandler queues an update for the worker and answers at once.
// A full queue answers 503 so Telegram delivers the update again later.
func (s *Server) webhookHandler(w http.ResponseWriter, r *http.Request) {
	if s.webhookSecret != "" &&
		subtle.ConstantTimeCompare([]byte(r.Header.Get(secretHeader)), []byte(s.webhookSecret)) != 1 {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusUnauthorized, errors.New("bad secret token"), "unauthorized")
		return
	}

	var upd telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "can't decode update")
		return
	}

	select {
	case s.updates <- upd:
		rest.RenderJSON(w, rest.JSON{"ok": true})
	default:
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusServiceUnavailable, errors.New("update queue is full"), "busy")
	}
}

// statusHandler returns server, journal and scheduler status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status, journal := "ok", "ok"
	if err := s.journal.Ping(r.Context()); err != nil {
		lgr.Printf("[WARN] journal ping failed: %v", err)
		status, journal = "degraded", err.Error()
	}
	rest.RenderJSON(w, rest.JSON{
		"status":    status,
		"version":   s.version,
		"time":      time.Now().UTC(),
		"journal":   journal,
		"scheduler": s.status.Status(),
	})
}

// maxHours bounds the deliveries lookback, one year
const maxHours = 24 * 365

// deliveriesHandler lists recent delivery attempts, ?hours=N (default 24) and ?limit=N (default 50)
func (s *Server) deliveriesHandler(w http.ResponseWriter, r *http.Request) {
	hours, limit := 24, 50
	if v := r.URL.Query().Get("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxHours {
			rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, fmt.Errorf("invalid hours %q", v), "invalid hours")
			return
		}
		hours = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, fmt.Errorf("invalid limit %q", v), "invalid limit")
			return
		}
		limit = n
	}

	deliveries, err := s.journal.Recent(r.Context(), time.Now().Add(-time.Duration(hours)*time.Hour), limit)
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusInternalServerError, err, "can't load deliveries")
		return
	}
	if deliveries == nil {
		deliveries = []domain.Delivery{}
	}
	rest.RenderJSON(w, deliveries)
}
