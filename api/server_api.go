package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	defaultPort     int           = 9191
	shutdownTimeout time.Duration = time.Second * 10
)

type Server struct {
	port      int
	stage     string
	analytics AnalyticsRecorder
	router    *chi.Mux

	SessionManager mc.SessionManager
	GameManager    mb.GameManager
}

type Option func(*Server) error

func NewServer(sessionManager mc.SessionManager, gameManager mb.GameManager, optFuncs ...Option) *Server {
	server := Server{
		port:           defaultPort,
		stage:          StageDev,
		SessionManager: sessionManager,
		GameManager:    gameManager,
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}

	server.router = server.routes()
	return &server
}

func WithPort(port int) Option {
	return func(s *Server) error {
		if port <= 0 {
			return fmt.Errorf("invalid port: %d", port)
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return cerr.ErrInvalidStage(stage)
		}
		s.stage = stage
		return nil
	}
}

func WithAnalytics(analytics AnalyticsRecorder) Option {
	return func(s *Server) error {
		s.analytics = analytics
		return nil
	}
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/analytics", s.handleAnalytics)
	r.Method(http.MethodGet, "/battleship", NewRequestProcessor(s.SessionManager, s.GameManager, s.analytics))

	return r
}

func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: time.Second * 5,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Int("port", s.port).Str("stage", s.stage).Msg("listening")
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errChan; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type respAnalytics struct {
	ServerIp     string `json:"server_ip"`
	GamesCreated int64  `json:"games_created"`
	GamesWon     int64  `json:"games_won"`
	GamesLost    int64  `json:"games_lost"`
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if s.analytics == nil {
		writeJSON(w, http.StatusServiceUnavailable, mc.NewRespErr(cerr.ErrAnalyticsDisabled().Error(), ""))
		return
	}

	counts, err := s.analytics.GetGameServerCounts(r.Context())
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Msg("fetch analytics")
		writeJSON(w, http.StatusInternalServerError, mc.NewRespErr(err.Error(), "failed to fetch analytics"))
		return
	}

	resp := respAnalytics{
		GamesCreated: counts.GamesCreated,
		GamesWon:     counts.GamesWon,
		GamesLost:    counts.GamesLost,
	}
	if counts.ServerIp.Valid {
		resp.ServerIp = counts.ServerIp.IPNet.IP.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Debug().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// ServerIpNet finds the first non-loopback IPv4 address of this host,
// which keys the analytics rows. Loopback is used when there is none.
func ServerIpNet() net.IPNet {
	fallback := net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		return fallback
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
				return net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	return fallback
}
