package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"     validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache"     validate:"required"`
	Analytics AnalyticsConfig `mapstructure:"analytics" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// RedisConfig contains the connection settings for the cache backing store.
type RedisConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// AuthConfig contains all authentication settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// CacheConfig contains the paged listing cache settings.
type CacheConfig struct {
	// TTLSeconds is how long a cached listing page stays fresh.
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
}

// AnalyticsConfig contains the analytics window settings.
type AnalyticsConfig struct {
	// WindowDays is the span of the rolling aggregation window.
	WindowDays int `mapstructure:"window_days" validate:"required,gt=0"`
}
