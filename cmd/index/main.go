package main

import (
	"context"
	"log"
	"os"
	"time"

	"zeme/internal/config"
	"zeme/internal/database"
)

func main() {
	log.Println("Starting migration...")

	cfg := config.Load()

	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	defer mongoDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if failed := database.EnsureIndexes(ctx, mongoDB.Database); failed > 0 {
		log.Printf("Migration finished with %d failed indexes", failed)
		mongoDB.Close()
		os.Exit(1)
	}

	log.Println("Migration completed successfully!")
}
