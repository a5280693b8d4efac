package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"city-server/config"
	"city-server/handlers"
	"city-server/middleware"
	"city-server/services"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment configuration")
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// MySQL
	db, err := sqlx.Connect("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("MySQL connection failed: %v", err)
	}
	defer db.Close()
	log.Println("Connected to MySQL")

	// MongoDB
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")
	collection := mongoClient.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The cache layer degrades to direct store reads, so a missing Redis
		// is a warning rather than a startup failure.
		log.Printf("Redis unreachable at startup, running without cache: %v", err)
	} else {
		log.Println("Connected to Redis")
	}

	// Stores, cache, services
	cache := services.NewRedisCache(redisClient, cfg.CacheTimeout)
	poiStore := services.NewMySQLPOIStore(db)
	stationStore := services.NewMongoStationStore(ctx, collection)

	poiService := services.NewPOIService(poiStore, cache, cfg.POITTL, cfg.StoreTimeout)
	bikeService := services.NewBikeService(stationStore, cache, cfg.BikeTTL, cfg.StoreTimeout)
	statsService := services.NewStatsService(poiStore, stationStore, cache, cfg.BikeTTL, cfg.StoreTimeout)
	healthService := services.NewHealthService(poiStore, stationStore, cache, cfg.CacheTimeout)

	poiHandler := handlers.NewPOIHandler(poiService)
	bikeHandler := handlers.NewBikeHandler(bikeService)
	systemHandler := handlers.NewSystemHandler(statsService, healthService)

	r := mux.NewRouter()
	r.Use(middleware.RequestMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.ErrorMiddleware())

	// System routes
	r.HandleFunc("/", systemHandler.Root).Methods("GET")
	r.HandleFunc("/health", systemHandler.Health).Methods("GET")
	r.HandleFunc("/api/stats", systemHandler.Stats).Methods("GET")

	// City data routes
	cityRouter := r.PathPrefix("/api/city").Subrouter()
	cityRouter.HandleFunc("/pois", poiHandler.ListPOIs).Methods("GET", "OPTIONS")
	cityRouter.HandleFunc("/pois", poiHandler.CreatePOI).Methods("POST", "OPTIONS")
	cityRouter.HandleFunc("/pois/{id}", poiHandler.GetPOI).Methods("GET", "OPTIONS")
	cityRouter.HandleFunc("/search", poiHandler.SearchPOIs).Methods("GET", "OPTIONS")

	// Bike sharing routes
	bikeRouter := r.PathPrefix("/api/bikes").Subrouter()
	bikeRouter.HandleFunc("/stations", bikeHandler.ListStations).Methods("GET", "OPTIONS")
	bikeRouter.HandleFunc("/stations", bikeHandler.CreateStation).Methods("POST", "OPTIONS")
	bikeRouter.HandleFunc("/stations/{id}", bikeHandler.GetStation).Methods("GET", "OPTIONS")
	bikeRouter.HandleFunc("/stations/{id}/history", bikeHandler.GetStationHistory).Methods("GET", "OPTIONS")

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
