package middleware

import (
	"log/slog"
	"slices"
	"strings"

	"sanatorium-booking/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Headers the booking API relies on; they survive any CORS env override.
var (
	requiredAllowHeaders  = []string{"Authorization", "Content-Type", "Idempotency-Key"}
	requiredExposeHeaders = []string{"Location", "Idempotent-Replayed"}
)

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withHeaders(cfg.AllowHeaders, requiredAllowHeaders),
		ExposeHeaders:    withHeaders(cfg.ExposeHeaders, requiredExposeHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized",
		"allow_origins", corsCfg.AllowOrigins,
		"expose_headers", corsCfg.ExposeHeaders)
	return cors.New(corsCfg)
}

func withHeaders(configured, required []string) []string {
	out := slices.Clone(configured)
	for _, h := range required {
		if !slices.ContainsFunc(out, func(c string) bool { return strings.EqualFold(c, h) }) {
			out = append(out, h)
		}
	}
	return out
}
