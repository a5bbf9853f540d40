package main

import (
	"fmt"
	"os"
)

// Config holds all environment variables for the catalog service.
type Config struct {
	Port      string // Service port (default: 8082)
	JWTSecret string // JWT secret for authenticating mutation endpoints

	MongoURL string // MongoDB connection string
	MongoDB  string // Database name (default: catalog)

	RedisURL string // Redis connection URL for the read cache

	S3Bucket   string // Object storage bucket for product images
	S3Prefix   string // Optional key prefix inside the bucket
	S3Region   string // AWS region (default: us-east-1)
	S3Endpoint string // Optional custom endpoint for S3-compatible stores
	S3Key      string // Access key id
	S3Secret   string // Secret access key

	RabbitURL      string // AMQP URL; messaging is optional when unset
	RabbitExchange string
	RabbitQueue    string
}

// LoadConfig loads environment variables into a Config struct and validates them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:      os.Getenv("PORT"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		MongoURL: os.Getenv("MONGO_URL"),
		MongoDB:  os.Getenv("MONGO_DB"),

		RedisURL: os.Getenv("REDIS_URL"),

		S3Bucket:   os.Getenv("S3_BUCKET"),
		S3Prefix:   os.Getenv("S3_PREFIX"),
		S3Region:   os.Getenv("S3_REGION"),
		S3Endpoint: os.Getenv("S3_ENDPOINT"),
		S3Key:      os.Getenv("S3_ACCESS_KEY_ID"),
		S3Secret:   os.Getenv("S3_SECRET_ACCESS_KEY"),

		RabbitURL:      os.Getenv("RABBITMQ_URL"),
		RabbitExchange: os.Getenv("RABBITMQ_EXCHANGE"),
		RabbitQueue:    os.Getenv("RABBITMQ_QUEUE"),
	}

	if cfg.Port == "" {
		cfg.Port = "8082"
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "catalog"
	}
	if cfg.S3Region == "" {
		cfg.S3Region = "us-east-1"
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379/0"
	}
	if cfg.RabbitExchange == "" {
		cfg.RabbitExchange = "catalog_events"
	}
	if cfg.RabbitQueue == "" {
		cfg.RabbitQueue = "catalog_events"
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MongoURL == "" {
		return nil, fmt.Errorf("MONGO_URL is required")
	}
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}

	return cfg, nil
}
