// server/cmd/api/main.go
package main

import (
	"context"
	"log"
	"time"

	"farmlink-api-server/config"
	"farmlink-api-server/internal/api/routes"
	"farmlink-api-server/internal/auth"
	"farmlink-api-server/internal/database"
	"farmlink-api-server/internal/ledger"
	"farmlink-api-server/internal/policy"
	"farmlink-api-server/internal/s3"
	"farmlink-api-server/internal/socket"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.JWT.Secret != "" {
		auth.JwtSecret = []byte(cfg.JWT.Secret)
	}
	if cfg.JWT.Expiration != "" {
		if ttl, err := time.ParseDuration(cfg.JWT.Expiration); err == nil {
			auth.TokenTTL = ttl
		} else {
			log.Printf("Invalid jwt.expiration %q, keeping default: %v", cfg.JWT.Expiration, err)
		}
	}

	db, err := database.Connect(cfg.Mongo.URI, cfg.Mongo.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Successfully connected to MongoDB!")

	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	if cfg.Seed.DemoUsers {
		if err := database.SeedDemoUsers(db); err != nil {
			log.Fatalf("Failed to seed demo users: %v", err)
		}
	}

	store := database.NewStore(db)
	ldg := ledger.New(store)
	engine := policy.NewEngine(store, ldg, store)

	var uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3 uploader: %v", err)
		}
	} else {
		log.Println("S3 bucket not configured, file uploads disabled")
	}

	hub := socket.NewHub()

	router := routes.SetupRouter(cfg, db, ldg, engine, uploader, hub)

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
