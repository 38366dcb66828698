package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/uncoded/onboarding-api/internal/config"
	"go.uber.org/zap"
)

// CORS builds the cross-origin policy for the onboarding API. The partner
// registration wizard and the BOS/pricing dashboards run on their own
// origins, so browsers preflight every API call.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	applyOriginPolicy(&options, cfg, environment, logger)
	return cors.Handler(options)
}

func applyOriginPolicy(options *cors.Options, cfg *config.CORSConfig, environment string, logger *zap.Logger) {
	allowAny := func(r *http.Request, origin string) bool { return origin != "" }
	denyAll := func(r *http.Request, origin string) bool { return false }
	isDev := environment == "development" || environment == "local" || environment == ""

	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			if !isDev {
				logger.Warn("CORS configured with wildcard origin outside development",
					zap.String("environment", environment))
			}
			options.AllowOriginFunc = allowAny
			return
		}
	}

	if len(cfg.AllowedOrigins) > 0 {
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins",
			zap.Strings("origins", cfg.AllowedOrigins))
		return
	}

	// Nothing configured. Development opens up so the wizard can run off
	// localhost; anywhere else every cross-origin request is refused.
	// AllowOriginFunc is needed because an empty AllowedOrigins list
	// defaults to "*" inside the cors package.
	if isDev {
		options.AllowOriginFunc = allowAny
		logger.Info("CORS allowing all origins in development mode")
		return
	}
	options.AllowOriginFunc = denyAll
	logger.Warn("CORS has no allowed origins, cross-origin requests will be denied",
		zap.String("environment", environment))
}
