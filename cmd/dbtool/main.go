package main

import (
	"context"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/Rebecca042/CityTour-Planner/internal/adapters/repositories"
	"github.com/Rebecca042/CityTour-Planner/internal/config"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/db"
)

// dbtool creates the schema and loads the sight seed file into Postgres
// (DATABASE_URL) or, when that is unset, the SQLite file at DB_PATH.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	dbPath := config.Get("DB_PATH", "data/app.db")
	if strings.TrimSpace(databaseURL) == "" {
		log.Printf("DATABASE_URL not set, using sqlite path=%s", dbPath)
	}

	conn, err := db.Open(databaseURL, dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/sights.json")
	initAndSeed(conn, seedPath)
}

func initAndSeed(conn *sqlx.DB, seedPath string) {
	ctx := context.Background()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	n, err := repositories.SeedFromFile(ctx, conn, seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. sights=%d", n)
}
