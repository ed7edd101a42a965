package server

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/middlewares"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

type Config struct {
	Host                    string        `envconfig:"HOST"`
	Port                    string        `envconfig:"PORT" default:"8080"`
	WriteTimeout            time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	ReadTimeout             time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	ReadHeaderTimeout       time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"3s"`
	IdleTimeout             time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout         time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	EnableLoggingMiddleware bool          `envconfig:"ENABLE_LOGGING_MIDDLEWARE" default:"false"`
}

// CORSConfig разрешённые источники фронтенда
type CORSConfig struct {
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS" default:"true"`
}

type Controller interface {
	RegisterRoutes(router *gin.Engine)
}

// NewRouter gin с общими middleware и маршрутами всех контроллеров, обёрнутый в CORS
func NewRouter(
	cfg *Config,
	corsCfg *CORSConfig,
	logger *slog.Logger,
	m *metrics.Metrics,
	controllers ...Controller,
) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middlewares.RecoveryLogger(logger))
	if m != nil {
		router.Use(m.GinMiddleware())
	}
	if cfg.EnableLoggingMiddleware {
		router.Use(middlewares.RequestLogger(logger))
	}

	for _, controller := range controllers {
		controller.RegisterRoutes(router)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middlewares.UserIDHeader},
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           600,
	})
	return c.Handler(router)
}

func NewHTTPServer(
	cfg *Config,
	corsCfg *CORSConfig,
	logger *slog.Logger,
	m *metrics.Metrics,
	controllers ...Controller,
) *http.Server {
	return &http.Server{
		Handler:           NewRouter(cfg, corsCfg, logger, m, controllers...),
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
