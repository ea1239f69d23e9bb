// Package config holds the environment-driven settings of the homelab API
// service. Defaults match the in-cluster service names created by the
// component stack, so a pod needs no configuration at all.
package config

import (
	"fmt"
	"net"
	"net/url"

	"github.com/spf13/viper"
)

// Settings is the full runtime configuration of the API service.
type Settings struct {
	Port     string
	Postgres PostgresSettings
	Redis    RedisSettings
	RabbitMQ RabbitMQSettings
	Logger   LoggerSettings
}

// PostgresSettings configures the PostgreSQL connection.
type PostgresSettings struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// DSN renders the settings as a gorm postgres driver DSN.
func (s PostgresSettings) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		s.Host, s.Port, s.User, s.Password, s.Database,
	)
}

// RedisSettings configures the Redis connection.
type RedisSettings struct {
	Host string
	Port string
}

// Addr renders the settings as a host:port address.
func (s RedisSettings) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// RabbitMQSettings configures the RabbitMQ connection.
type RabbitMQSettings struct {
	Host     string
	Port     string
	VHost    string
	User     string
	Password string
}

// URL renders the settings as an AMQP connection URL.
func (s RabbitMQSettings) URL() string {
	vhost := s.VHost
	if vhost == "/" {
		vhost = ""
	}

	amqpURL := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(s.User, s.Password),
		Host:   net.JoinHostPort(s.Host, s.Port),
		Path:   "/" + vhost,
	}

	return amqpURL.String()
}

// LoggerSettings configures the service logger.
type LoggerSettings struct {
	Level      string
	Type       string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads the settings from the environment, falling back to defaults
// matching the component stack's service names and credentials.
func Load() *Settings {
	env := viper.New()
	env.AutomaticEnv()

	env.SetDefault("PORT", "8000")

	env.SetDefault("POSTGRES_HOST", "postgresql")
	env.SetDefault("POSTGRES_PORT", "5432")
	env.SetDefault("POSTGRES_DB", "homelab")
	env.SetDefault("POSTGRES_USER", "postgres")
	env.SetDefault("POSTGRES_PASSWORD", "postgres123")

	env.SetDefault("REDIS_HOST", "redis")
	env.SetDefault("REDIS_PORT", "6379")

	env.SetDefault("RABBITMQ_HOST", "rabbitmq")
	env.SetDefault("RABBITMQ_PORT", "5672")
	env.SetDefault("RABBITMQ_VHOST", "/")
	env.SetDefault("RABBITMQ_USER", "admin")
	env.SetDefault("RABBITMQ_PASSWORD", "admin123")

	env.SetDefault("LOG_LEVEL", "info")
	env.SetDefault("LOG_TYPE", "console")
	env.SetDefault("LOG_FILE_PATH", "/var/log/homelab-api.log")
	env.SetDefault("LOG_MAX_SIZE", 10)
	env.SetDefault("LOG_MAX_BACKUPS", 5)
	env.SetDefault("LOG_MAX_AGE", 30)

	return &Settings{
		Port: env.GetString("PORT"),
		Postgres: PostgresSettings{
			Host:     env.GetString("POSTGRES_HOST"),
			Port:     env.GetString("POSTGRES_PORT"),
			Database: env.GetString("POSTGRES_DB"),
			User:     env.GetString("POSTGRES_USER"),
			Password: env.GetString("POSTGRES_PASSWORD"),
		},
		Redis: RedisSettings{
			Host: env.GetString("REDIS_HOST"),
			Port: env.GetString("REDIS_PORT"),
		},
		RabbitMQ: RabbitMQSettings{
			Host:     env.GetString("RABBITMQ_HOST"),
			Port:     env.GetString("RABBITMQ_PORT"),
			VHost:    env.GetString("RABBITMQ_VHOST"),
			User:     env.GetString("RABBITMQ_USER"),
			Password: env.GetString("RABBITMQ_PASSWORD"),
		},
		Logger: LoggerSettings{
			Level:      env.GetString("LOG_LEVEL"),
			Type:       env.GetString("LOG_TYPE"),
			FilePath:   env.GetString("LOG_FILE_PATH"),
			MaxSizeMB:  env.GetInt("LOG_MAX_SIZE"),
			MaxBackups: env.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: env.GetInt("LOG_MAX_AGE"),
		},
	}
}
