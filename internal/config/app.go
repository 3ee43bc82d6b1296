package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type App struct {
	Addr           string
	BasePath       string
	SessionIdleTTL time.Duration
	CorsOrigins    []string
}

func NewApp() (*App, error) {
	app := &App{
		Addr:           ":8080",
		SessionIdleTTL: 30 * time.Minute,
	}

	if addr, ok := os.LookupEnv("APP_ADDR"); ok {
		app.Addr = addr
	}

	if basePath, ok := os.LookupEnv("APP_BASE_PATH"); ok {
		app.BasePath = "/" + strings.Trim(basePath, "/")
		if app.BasePath == "/" {
			app.BasePath = ""
		}
	}

	if ttlStr, ok := os.LookupEnv("SESSION_IDLE_TTL"); ok {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("unable to parse SESSION_IDLE_TTL: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("SESSION_IDLE_TTL must be positive, got %s", ttl)
		}
		app.SessionIdleTTL = ttl
	}

	if origins, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				app.CorsOrigins = append(app.CorsOrigins, origin)
			}
		}
	}

	return app, nil
}
