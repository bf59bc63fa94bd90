package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"fileproxy/internal/config"
	"fileproxy/internal/database"
	"fileproxy/internal/domain/file"
	"fileproxy/internal/domain/storagecfg"
	"fileproxy/internal/domain/stream"
	"fileproxy/internal/domain/user"
	"fileproxy/internal/middleware"
	"fileproxy/internal/pkg/response"
	"fileproxy/internal/pkg/token"
	"fileproxy/internal/storage"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := user.NewRepository(db)
	fileRepo := file.NewRepository(db)
	configRepo := storagecfg.NewRepository(db)

	verifier := token.NewVerifier(cfg.AccessTokenSecret, cfg.ShareTokenSecret)

	registry := storage.NewRegistry(
		storage.NewS3Adapter(),
		storage.NewAzureAdapter(),
		storage.NewLocalAdapter(),
	)

	streamService := stream.NewService(userRepo, fileRepo, configRepo, registry, verifier)
	streamHandler := stream.NewHandler(streamService, cfg.AccessCookieName)

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	stream.RegisterRoutes(r, streamHandler)

	srv := &http.Server{
		Addr:        cfg.Addr,
		Handler:     r,
		ReadTimeout: cfg.HTTPReadTimeout,
		// No WriteTimeout: large files stream for as long as the client
		// keeps reading.
	}

	log.Printf("listening addr=%s env=%s", cfg.Addr, cfg.AppEnv)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
