package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"sanatorium-booking/internal/domain/user"
	"sanatorium-booking/internal/handler/api"
	"sanatorium-booking/internal/handler/middleware"
	"sanatorium-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Rooms        *api.RoomHandler
	Reservations *api.ReservationHandler
	Staff        *api.StaffHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	RegisterValidators()
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		rooms := apiGroup.Group("/rooms")
		addRoutes(rooms, []route{
			{Method: http.MethodGet, Path: "", Handler: h.Rooms.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Rooms.Get},
			{Method: http.MethodGet, Path: "/:id/availability", Handler: h.Rooms.Availability},
			{Method: http.MethodGet, Path: "/:id/price", Handler: h.Rooms.Price},
			{Method: http.MethodGet, Path: "/:id/busy", Handler: h.Rooms.Busy},
		})

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Reservations.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Reservations.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Reservations.Get},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Reservations.Cancel},
			})
		}

		staff := apiGroup.Group("/staff/reservations")
		staff.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleStaff))
		{
			addRoutes(staff, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Staff.List},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.Staff.Confirm},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Staff.Cancel},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: h.Staff.Complete},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
