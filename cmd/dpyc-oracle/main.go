package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/lonniev/dpyc-oracle/internal/config"
	"github.com/lonniev/dpyc-oracle/internal/github"
	"github.com/lonniev/dpyc-oracle/internal/logger"
	"github.com/lonniev/dpyc-oracle/internal/mcp"
	"github.com/lonniev/dpyc-oracle/internal/registry"
	"github.com/lonniev/dpyc-oracle/internal/tools"
	"github.com/lonniev/dpyc-oracle/internal/tools/citizenship"
	"github.com/lonniev/dpyc-oracle/internal/tools/community"
	"github.com/lonniev/dpyc-oracle/internal/tools/governance"
	"github.com/lonniev/dpyc-oracle/pkg/version"
)

func main() {
	listen := flag.String("listen", "", "serve JSON-RPC on a TCP address instead of stdio (e.g. 127.0.0.1:8750)")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "log format (text, json)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Version)
		return
	}

	cfg := config.Load()
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.LogLevel)
	logCfg.Format = cfg.LogFormat
	logger.Init(logCfg)

	if err := run(cfg, *listen); err != nil {
		logger.Error("oracle exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, listen string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := buildRegistryClient(cfg)
	if err != nil {
		return err
	}
	defer reg.Close()

	gh := github.NewClient(cfg.GitHubAPIURL, cfg.CommunityRepo, cfg.GitHubToken)
	committer := citizenship.NewGitHubCommitter(gh, reg, cfg.GitHubToken)

	toolRegistry := tools.NewRegistry()
	if err := registerAllTools(toolRegistry, reg, committer, cfg); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	server := mcp.NewServer(toolRegistry)

	logger.Info("dpyc-oracle starting",
		"version", version.Version,
		"registry", cfg.CommunityBaseURL,
		"tools", len(toolRegistry.Names()))

	if listen != "" {
		l, err := net.Listen("tcp", listen)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", listen, err)
		}
		logger.Info("serving on tcp", "addr", listen)
		return server.ServeListener(ctx, l)
	}

	return server.ProcessStream(os.Stdin, os.Stdout)
}

func buildRegistryClient(cfg *config.Config) (*registry.Client, error) {
	reg := registry.NewClient(cfg.CommunityBaseURL, cfg.CacheTTL, cfg.HTTPTimeout)

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Warn("failed to create cache directory, running uncached", "error", err)
	} else if cache, err := registry.NewDocumentCache(cfg.CacheDBPath); err != nil {
		logger.Warn("failed to open document cache, running uncached",
			"path", cfg.CacheDBPath, "error", err)
	} else {
		reg.WithCache(cache)
	}

	if cfg.MirrorDir != "" {
		mirror, err := registry.NewMirror(cfg.MirrorDir, cfg.MirrorPatterns)
		if err != nil {
			reg.Close()
			return nil, fmt.Errorf("failed to open mirror %s: %w", cfg.MirrorDir, err)
		}
		reg.WithMirror(mirror)
		logger.Info("serving registry overrides from mirror", "dir", cfg.MirrorDir)
	}

	return reg, nil
}

func registerAllTools(toolRegistry *tools.Registry, reg *registry.Client, committer citizenship.MemberCommitter, cfg *config.Config) error {
	if err := toolRegistry.Register(tools.NewHealthTool()); err != nil {
		return err
	}

	for _, tool := range community.GetTools(reg, cfg.TaxRatePercent, cfg.TaxMinSats) {
		if err := toolRegistry.Register(tool); err != nil {
			return fmt.Errorf("community: %w", err)
		}
	}

	for _, tool := range citizenship.GetTools(reg, committer) {
		if err := toolRegistry.Register(tool); err != nil {
			return fmt.Errorf("citizenship: %w", err)
		}
	}

	for _, tool := range governance.GetTools() {
		if err := toolRegistry.Register(tool); err != nil {
			return fmt.Errorf("governance: %w", err)
		}
	}

	return nil
}
