package main

import (
	"log"
	"os"
	"time"

	"offline-payment-sync/internal/config"
	"offline-payment-sync/internal/repository"
	"offline-payment-sync/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfgPath := os.Getenv("OFFLINESYNC_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := config.InitDB(cfg.Audit)
	if err != nil {
		log.Fatalf("audit db: %v", err)
	}
	if err := repository.NewAuditRepository(db).Migrate(); err != nil {
		log.Fatalf("audit migrate: %v", err)
	}

	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := routes.RegisterRoutes(r, db, cfg); err != nil {
		log.Fatalf("routes: %v", err)
	}

	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
