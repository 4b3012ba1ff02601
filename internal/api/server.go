package api

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"courtside/internal/cache"
	"courtside/internal/config"
	"courtside/internal/database"
	"courtside/internal/handlers"
	"courtside/internal/messaging"
	"courtside/internal/metrics"
	"courtside/internal/middleware"
	"courtside/internal/repository"
	"courtside/internal/search"
	"courtside/internal/service"

	"github.com/gin-gonic/gin"
)

// Server wires the HTTP API together. Postgres is required; NATS, Valkey
// and Elasticsearch are optional and the API degrades without them.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	es       *search.ElasticsearchClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, domain events disabled", "error", err)
		natsClient = nil
	}

	valkeyClient, err := cache.NewValkeyClient()
	if err != nil {
		slog.Warn("Valkey unavailable, caching disabled", "error", err)
		valkeyClient = nil
	}

	var esClient *search.ElasticsearchClient
	if cfg.Elasticsearch.URL != "" {
		esClient, err = search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			slog.Warn("Elasticsearch unavailable, search falls back to SQL", "error", err)
			esClient = nil
		}
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, valkeyClient, esClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		es:       esClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")

	// Browsing endpoints work anonymously; credentials, when supplied, still
	// resolve so activity detail can report the caller's participation.
	public := api.Group("")
	public.Use(middleware.OptionalBasicAuth(s.repos.Users, s.valkey))
	{
		venues := public.Group("/venues")
		{
			venues.GET("", h.ListVenues)
			venues.GET("/popular", h.PopularVenues)
			venues.GET("/search", h.SearchVenues)
			venues.GET("/memberships", h.ListMemberships)
			venues.GET("/stats/types", h.VenueTypeStats)
			venues.GET("/:id", h.GetVenue)
			venues.GET("/:id/reviews", h.VenueReviews)
		}

		public.GET("/activities", h.ListActivities)
		public.GET("/activities/:id", h.GetActivity)

		public.GET("/activity-comments", h.ListComments)
		public.GET("/activity-comments/:id/replies", h.ListCommentReplies)
	}

	authed := api.Group("")
	authed.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
	{
		bookings := authed.Group("/bookings")
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.ListBookings)
			bookings.GET("/:id", h.GetBooking)
			bookings.PUT("/:id/cancel", h.CancelBooking)
			bookings.PUT("/:id/pay", h.PayBooking)
		}

		authed.POST("/activities/:id/participate", h.JoinActivity)
		authed.DELETE("/activities/:id/participate", h.LeaveActivity)

		reviews := authed.Group("/reviews")
		{
			reviews.POST("", h.CreateReview)
			reviews.GET("", h.ListMyReviews)
			reviews.PUT("/:id", h.UpdateReview)
			reviews.DELETE("/:id", h.DeleteReview)
		}

		authed.POST("/activity-comments", h.CreateComment)
		authed.DELETE("/activity-comments/:id", h.DeleteComment)

		users := authed.Group("/users")
		{
			users.GET("/profile", h.GetProfile)
			users.PUT("/profile", h.UpdateProfile)
			users.GET("/stats", h.GetStats)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", metrics.Handler())
}

func (s *Server) healthCheck(c *gin.Context) {
	health := s.db.HealthCheck(c.Request.Context())
	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"db":     health,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "courtside-api",
		"db":      health,
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter returns the router for testing.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes the outbound connections.
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing Valkey connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
