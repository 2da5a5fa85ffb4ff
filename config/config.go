package config

import "github.com/caarlos0/env/v6"

type Config struct {
    // Server configuration
    Server struct {
        // Port the API listens on
        Port string `env:"SERVER_PORT" envDefault:"5250"`

        // Allowed CORS origins for the dashboard frontend
        AllowedOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

        // Debug enables diagnostic detail in error responses
        Debug bool `env:"DEBUG" envDefault:"false"`
    }

    // Database configuration
    Database struct {
        // Path to the SQLite database file
        Path string `env:"DATABASE_PATH" envDefault:"database/reitboard.db"`
    }

    // Auth configuration
    Auth struct {
        // Static dashboard credentials
        Username string `env:"ADMIN_USERNAME" envDefault:"admin"`
        Password string `env:"ADMIN_PASSWORD" envDefault:"admin123"`

        // Secret used to sign session tokens
        JWTSecret string `env:"JWT_SECRET" envDefault:"reitboard-dev-secret"`

        // Session token lifetime in minutes
        TokenTTL int `env:"TOKEN_TTL_MINUTES" envDefault:"480"`
    }
}

func LoadConfig() (*Config, error) {
    cfg := &Config{}
    if err := env.Parse(cfg); err != nil {
        return nil, err
    }
    return cfg, nil
}
