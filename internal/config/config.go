// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// RabbitMQEnabled gates the status event publisher; the service runs
	// fine without a broker.
	RabbitMQEnabled bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		DBHost:          getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:          getEnvOrDefault("DB_PORT", "5432"),
		DBUser:          getEnvOrDefault("DB_USER", "postgres"),
		DBPassword:      getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:          getEnvOrDefault("DB_NAME", "shipments_db"),
		RabbitMQEnabled: os.Getenv("RABBITMQ_HOST") != "",
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
