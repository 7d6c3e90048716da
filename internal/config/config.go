package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	CommunityBaseURL string
	CommunityRepo    string
	GitHubAPIURL     string
	GitHubToken      string
	CacheTTL         time.Duration
	CacheDBPath      string
	MirrorDir        string
	MirrorPatterns   []string
	TaxRatePercent   int
	TaxMinSats       int
	HTTPTimeout      time.Duration
	LogLevel         string
	LogFormat        string
}

func Load() *Config {
	homeDir, _ := os.UserHomeDir()
	oracleDir := filepath.Join(homeDir, ".dpyc-oracle")

	cfg := &Config{
		CommunityBaseURL: envOr("DPYC_COMMUNITY_BASE_URL",
			"https://raw.githubusercontent.com/lonniev/dpyc-community/main"),
		CommunityRepo:  envOr("DPYC_COMMUNITY_REPO", "lonniev/dpyc-community"),
		GitHubAPIURL:   envOr("GITHUB_API_URL", "https://api.github.com"),
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		CacheTTL:       time.Duration(envIntOr("CACHE_TTL_SECONDS", 300)) * time.Second,
		CacheDBPath:    envOr("CACHE_DB_PATH", filepath.Join(oracleDir, "cache.db")),
		MirrorDir:      os.Getenv("DPYC_MIRROR_DIR"),
		MirrorPatterns: envListOr("DPYC_MIRROR_PATTERNS", []string{"*.json", "*.md", "**/*.md"}),
		TaxRatePercent: envIntOr("TAX_RATE_PERCENT", 2),
		TaxMinSats:     envIntOr("TAX_MIN_SATS", 10),
		HTTPTimeout:    time.Duration(envIntOr("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogFormat:      envOr("LOG_FORMAT", "text"),
	}

	return cfg
}

func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(filepath.Dir(c.CacheDBPath), 0700)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
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

func envListOr(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
