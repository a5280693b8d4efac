package main

import (
	"context"
	"log"
	"os"

	"city-server/config"
	"city-server/loader"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment configuration")
	}
	cfg := config.Load()

	csvPath := os.Getenv("POI_SEED_FILE")
	if csvPath == "" {
		csvPath = "./data/pois.csv"
	}

	ctx := context.Background()

	db, err := sqlx.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Invalid MySQL DSN: %v", err)
	}
	defer db.Close()

	if err := loader.WaitForMySQL(ctx, db, 30); err != nil {
		log.Fatalf("%v", err)
	}
	if err := loader.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		log.Fatalf("Failed to open seed file: %v", err)
	}
	defer file.Close()

	pois, err := loader.ParseCSV(file)
	if err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	inserted, err := loader.Insert(ctx, db, pois)
	if err != nil {
		log.Fatalf("Failed to insert seed data: %v", err)
	}
	log.Printf("Seeded %d points of interest", inserted)
}
