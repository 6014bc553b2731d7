package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultHistoryWindow is the number of turns shown when no limit is given.
const DefaultHistoryWindow = 5

// DefaultDisplayTimezone is the zone used to render wall-clock times to users.
const DefaultDisplayTimezone = "Europe/Paris"

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	Chat   ChatConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Chat: chat}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr          string
	AllowedOrigin string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	origin := getEnvOrDefault("CORS_ALLOWED_ORIGIN", "*")

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, AllowedOrigin: origin}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigin: origin}, nil
}

// ChatConfig 描述对话引擎相关配置。
type ChatConfig struct {
	HistoryWindow int
	CatalogPath   string
	Seed          *int64
	// DisplayLocation renders turn times; stored timestamps stay in UTC.
	DisplayLocation *time.Location
}

func loadChatConfig() (ChatConfig, error) {
	window := DefaultHistoryWindow
	if override, err := parseOptionalIntEnv("HISTORY_WINDOW"); err != nil {
		return ChatConfig{}, err
	} else if override != nil {
		if *override < 1 {
			window = 1
		} else {
			window = *override
		}
	}

	seed, err := parseOptionalInt64Env("REPLY_SEED")
	if err != nil {
		return ChatConfig{}, err
	}

	zone := getEnvOrDefault("DISPLAY_TIMEZONE", DefaultDisplayTimezone)
	location, err := time.LoadLocation(zone)
	if err != nil {
		return ChatConfig{}, fmt.Errorf("invalid DISPLAY_TIMEZONE value %q: %w", zone, err)
	}

	return ChatConfig{
		HistoryWindow:   window,
		CatalogPath:     strings.TrimSpace(os.Getenv("EMOTION_CATALOG_PATH")),
		Seed:            seed,
		DisplayLocation: location,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalInt64Env(key string) (*int64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
