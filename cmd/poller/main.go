package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"city-server/config"
	"city-server/poller"
	"city-server/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment configuration")
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	collection := mongoClient.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)

	// Cached station lists must not outlive a sync, so the poller writes
	// through the same service the API uses and inherits its invalidation.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	cache := services.NewRedisCache(redisClient, cfg.CacheTimeout)
	stationStore := services.NewMongoStationStore(ctx, collection)
	bikeService := services.NewBikeService(stationStore, cache, cfg.BikeTTL, cfg.StoreTimeout)

	fetcher := poller.NewFetcher(poller.Config{
		APIURL:     cfg.BikeAPIURL,
		Accept:     cfg.BikeAPIAccept,
		TopRight:   cfg.BBoxTopRight,
		BottomLeft: cfg.BBoxBottomLeft,
		Interval:   cfg.PollInterval,
	}, bikeService)

	log.Printf("Bike poller starting, interval %s", cfg.PollInterval)
	fetcher.Run(ctx)
	log.Println("Bike poller stopped")
}
