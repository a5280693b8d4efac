package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every externally tunable setting. It is populated once in main
// from environment variables and handed to the services that need it, so
// nothing reads the environment after startup.
type Config struct {
	ListenAddr     string
	AllowedOrigins []string

	MySQLDSN string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// POITTL covers cached POI list responses; BikeTTL covers station lists
	// and the stats aggregate, which change far more often.
	POITTL  time.Duration
	BikeTTL time.Duration

	// CacheTimeout bounds each Redis round trip; StoreTimeout bounds each
	// MySQL/MongoDB call. A cache timeout is treated as a miss, a store
	// timeout fails the request.
	CacheTimeout time.Duration
	StoreTimeout time.Duration

	PollInterval   time.Duration
	BikeAPIURL     string
	BikeAPIAccept  string
	BBoxTopRight   string
	BBoxBottomLeft string
}

// Load builds a Config from the environment, applying defaults that match the
// docker-compose service names.
func Load() Config {
	return Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		AllowedOrigins: []string{getEnv("DASHBOARD_ORIGIN", "*")},

		MySQLDSN: mysqlDSN(),

		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DB", "bike_sharing"),
		MongoCollection: getEnv("MONGO_COLLECTION", "bike_stations"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		POITTL:  getEnvDuration("POI_CACHE_TTL", 5*time.Minute),
		BikeTTL: getEnvDuration("BIKE_CACHE_TTL", time.Minute),

		CacheTimeout: getEnvDuration("CACHE_TIMEOUT", 2*time.Second),
		StoreTimeout: getEnvDuration("STORE_TIMEOUT", 10*time.Second),

		PollInterval:   getEnvDuration("POLL_INTERVAL", 5*time.Minute),
		BikeAPIURL:     getEnv("BIKE_API_URL", "https://stables.donkey.bike/api/public/nearby"),
		BikeAPIAccept:  getEnv("BIKE_API_ACCEPT", "application/com.donkeyrepublic.v7"),
		BBoxTopRight:   getEnv("BBOX_TOP_RIGHT", "54.406143,10.262604"),
		BBoxBottomLeft: getEnv("BBOX_BOTTOM_LEFT", "54.272041,10.006485"),
	}
}

func mysqlDSN() string {
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		getEnv("MYSQL_USER", "city_user"),
		getEnv("MYSQL_PASSWORD", ""),
		getEnv("MYSQL_HOST", "localhost"),
		getEnv("MYSQL_PORT", "3306"),
		getEnv("MYSQL_DB", "city_data"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
