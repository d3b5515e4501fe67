package server

import (
	"backend-smartdiary/internal/ai"
	"backend-smartdiary/internal/auth"
	"backend-smartdiary/internal/config"
	"backend-smartdiary/internal/entry"
	"backend-smartdiary/internal/media"
	"backend-smartdiary/internal/meta"
	"backend-smartdiary/internal/stream"
	"backend-smartdiary/internal/track"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	entrySvc := entry.NewService(s.DB, s.Stream)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	entry.RegisterRoutes(s.App.Group("/entries"), entrySvc, jwtMiddleware)
	track.RegisterRoutes(s.App.Group("/tracks"), track.NewService(s.DB, s.Stream), jwtMiddleware)
	media.RegisterRoutes(s.App.Group("/media"), media.NewService(s.DB, media.NewS3Store(s.Cfg)), jwtMiddleware)
	ai.RegisterRoutes(s.App.Group("/ai"), ai.NewService(ai.NewClient(s.Cfg), entrySvc, s.Redis), jwtMiddleware)
	meta.RegisterRoutes(s.App.Group("/meta"), s.Cfg.ChangelogPath)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
