// Package web assembles the HTTP service: middleware, session handling, the route table and its handlers.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/auth"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/config"
	accesslog "github.com/GoAccessAdmin/GoAccessAdmin/internal/logger/adapter/fiber"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler/api/login"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler/api/permission"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler/api/user"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler/api/usergroup"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler/page"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/router"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/session"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"
	// StaticPath serves the embedded assets.
	StaticPath = "/static"
)

// ErrNilDeps is returned by New if the config or the handler dependencies are missing.
var ErrNilDeps = errors.New("web: config and handler dependencies are required")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	sessions     *session.Manager
	table        *router.Table
	stopped      chan struct{}
	stopOnce     sync.Once
}

// Start starts the web service on the configured port and blocks until it stopped.
func (s *Service) Start() error {
	addr := ":" + strconv.Itoa(s.cfg.Webserver.Port)

	log.Info().Str("addr", addr).Msg("starting http server")

	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err //nolint:wrapcheck
	}

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and shuts the server down.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown stops the server. Unless in dev mode /checkalive answers 503 for
// Webserver.ShutDownTime seconds first, so load balancers can drain this instance.
func (s *Service) Shutdown() {
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}

	if err := s.sessions.Storage().Close(); err != nil {
		log.Error().Err(err).Msg("session storage close failed")
	}

	log.Info().Msg("http server was stopped ... good bye...")

	s.stopOnce.Do(func() { close(s.stopped) })
}

// Stopped is closed once Shutdown has released every resource.
func (s *Service) Stopped() <-chan struct{} {
	return s.stopped
}

// Routes returns the route table.
func (s *Service) Routes() *router.Table {
	return s.table
}

// New creates the web service. A nil storage keeps sessions in memory.
func New(cfg *config.Config, deps *handler.Deps, storage fiber.Storage) (*Service, error) {
	if cfg == nil || !deps.Valid() {
		return nil, ErrNilDeps
	}

	s := &Service{
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
		sessions:     session.NewManager(storage, cfg.Session.ExpiryTime, cfg.Session.Secure),
		table:        router.New(handler.BaseLayout),
		stopped:      make(chan struct{}),
	}
	s.alive.Store(true)

	s.App = fiber.New(fiber.Config{
		ReadBufferSize:    8192, //nolint:mnd
		AppName:           cfg.Title,
		CaseSensitive:     true,
		Immutable:         true,
		Views:             newViews(cfg),
		PassLocalsToViews: true,
		ErrorHandler:      handler.ErrorHandler,
	})

	// the access log hands chain errors to handler.ErrorHandler, everything below it may fail
	s.App.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		User:          sessionUser,
	}))

	if !cfg.Webserver.DisableRecover {
		s.App.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	s.App.Get(CheckAlivePath, s.checkAlive)
	s.App.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	s.App.Use(StaticPath, filesystem.New(filesystem.Config{
		Root:       http.FS(embeddedStaticFiles),
		PathPrefix: "static",
		Browse:     cfg.Webserver.BrowseStatic,
	}))

	if cfg.Webserver.CookieEncryptionKey != "" {
		s.App.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.Webserver.CookieEncryptionKey}))
	}

	s.App.Use(s.sessions.Middleware)
	s.App.Use(auth.AddPermissionsToLocals(deps.Checks))

	handlers := []handler.Service{
		&login.Service{},
		&user.Service{},
		&permission.Service{},
		&usergroup.Service{},
		&page.Service{},
	}

	for _, h := range handlers {
		if err := h.Init(s.table, deps); err != nil {
			return nil, err
		}
	}

	s.App.Use(s.table.Dispatch)

	return s, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

func sessionUser(c *fiber.Ctx) string {
	if u := session.FromCtx(c).User(); u != nil {
		return u.Username
	}

	return ""
}

func newViews(cfg *config.Config) *html.Engine {
	engine := html.NewFileSystem(templatesFS(), ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		engine = html.New("./internal/web/templates", ".gohtml")
		engine.Reload(true)

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	engine.AddFunc("date", formatDate)
	engine.AddFunc("optional", func(s *string) string {
		if s == nil {
			return ""
		}

		return *s
	})

	return engine
}

// formatDate renders a time.Time or *time.Time for the list pages, nil and zero as empty.
func formatDate(v any) string {
	var t time.Time

	switch d := v.(type) {
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return ""
		}

		t = *d
	}

	if t.IsZero() {
		return ""
	}

	return t.Format("2006-01-02 15:04")
}
