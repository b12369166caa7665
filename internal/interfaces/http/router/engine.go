package router

import (
	"github.com/gin-gonic/gin"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/config"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/logger"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const defaultMaxBodySize = 2 << 20

// EngineConfig holds what the middleware chain needs
type EngineConfig struct {
	Config    *config.Config
	Logger    *zap.Logger
	Validator middleware.TokenValidator
	// Meter records HTTP metrics; nil disables them
	Meter metric.Meter
}

// NewEngine builds the gin engine with the full middleware chain.
//
// Order matters: the request id comes first so every log line and error
// carries it, and tracing runs before authentication so rejected requests
// still produce a span.
func NewEngine(ec EngineConfig) (*gin.Engine, error) {
	cfg := ec.Config
	log := ec.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	maxBody := cfg.HTTP.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.HSTSEnabled = cfg.App.Env == "production"

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.SecureWithConfig(securityCfg),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(maxBody),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
	)

	if ec.Validator != nil {
		if cfg.JWT.Enabled {
			jwtCfg := middleware.DefaultJWTConfig(ec.Validator)
			jwtCfg.Logger = log
			engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
		} else {
			engine.Use(middleware.OptionalJWTAuthMiddleware(ec.Validator))
		}
	}

	engine.Use(
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(ec.Meter),
	)

	return engine, nil
}
