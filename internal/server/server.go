package server

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"eventhub/config"
	"eventhub/internal/handlers"
	"eventhub/internal/logger"
	"eventhub/internal/mailer"
	"eventhub/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	logger.Init(cfg)
	log := logger.New("server")

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return errors.Wrap(err, "initializing database")
	}

	var m mailer.Mailer
	if cfg.SMTPHost != "" {
		m = &mailer.SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.DefaultFrom,
		}
	} else {
		m = &mailer.LogMailer{Log: logger.New("mail")}
	}

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger.New("http")))
	r.Use(gin.Recovery())

	SetupRoutes(r, db, cfg, m)

	log.Info("starting server", "host", cfg.Host, "port", cfg.Port)
	return r.Run(cfg.Host + ":" + cfg.Port)
}

// SetupRoutes wires the HTTP surface. Exported so tests can build the
// same router against their own database and mailer.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, m mailer.Mailer) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.ConfigMiddleware(cfg))
	r.Use(middleware.MailerMiddleware(m))

	// Public browsing and auth.
	r.GET("/", handlers.ListEvents)
	r.GET("/events/:id", handlers.GetEvent)
	r.GET("/categories", handlers.ListCategories)
	r.POST("/sign-up", handlers.Register)
	r.POST("/sign-in", handlers.Login)
	r.GET("/activate", handlers.Activate)
	r.GET("/no-permission", handlers.NoPermission)

	// Authenticated only: RSVP actions and the caller's own state.
	authed := r.Group("/")
	authed.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authed.POST("/rsvp/:event_id", handlers.RSVP)
		authed.POST("/rsvp/:event_id/cancel", handlers.CancelRSVP)
		authed.GET("/my-events", handlers.MyEvents)
		authed.POST("/sign-out", handlers.Logout)
		authed.GET("/profile", handlers.GetProfile)
		authed.POST("/profile/edit", handlers.UpdateProfile)
		authed.POST("/password/change", handlers.ChangePassword)
	}

	// Staff only: mutations and dashboards.
	staff := r.Group("/")
	staff.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	staff.Use(middleware.RequireRoles("admin", "organizer"))
	{
		staff.POST("/events/create", handlers.CreateEvent)
		staff.POST("/events/:id/edit", handlers.UpdateEvent)
		staff.POST("/events/:id/delete", handlers.DeleteEvent)

		staff.POST("/categories/create", handlers.CreateCategory)
		staff.POST("/categories/:id/edit", handlers.UpdateCategory)
		staff.POST("/categories/:id/delete", handlers.DeleteCategory)

		staff.GET("/dashboard", handlers.Dashboard)
		staff.GET("/dashboard/stats", handlers.DashboardStats)
	}
}
