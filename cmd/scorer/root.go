package main

import (
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/just-nibble/repo-quality/internal/adapters/api"
	"github.com/just-nibble/repo-quality/internal/adapters/db"
	"github.com/just-nibble/repo-quality/internal/adapters/storage"
	"github.com/just-nibble/repo-quality/internal/core/service"
	"github.com/just-nibble/repo-quality/pkg/config"
	"github.com/just-nibble/repo-quality/pkg/log"
)

var (
	configPath string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scorer",
		Short: "Score the quality of public GitHub repositories",
		Long: `scorer fetches repository metadata from the GitHub REST API and
derives a 0-100 quality score, a complexity class and a list of insights.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("SCORER_CONFIG"), "path to a YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newServeCmd(), newAnalyzeCmd(), newInfoCmd(), newHistoryCmd())
	return root
}

// app is everything a command needs, built from the loaded config.
type app struct {
	cfg     config.Config
	log     log.Log
	client  *api.GitHubClient
	service *service.QualityService
	conn    *gorm.DB
	store   db.AnalysisStore
}

// newApp loads the configuration and wires the service. The analysis store
// is only connected when withStore is set and a database host is configured.
func newApp(withStore bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	l := log.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	client := api.NewGitHubClient(
		api.WithToken(cfg.GitHubToken),
		api.WithBaseURL(cfg.GitHubAPIURL),
		api.WithUserAgent(cfg.UserAgent),
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithCache(api.NewCache(cfg.CacheTTL, nil)),
	)
	if cfg.GitHubToken == "" {
		l.Warn().Msg("no GitHub token configured, requests are limited to 60 per hour")
	}

	a := &app{cfg: cfg, log: l, client: client}

	var store db.AnalysisStore
	if withStore && cfg.Database.Enabled() {
		conn, err := storage.InitDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		a.conn = conn
		store = db.NewGormAnalysisStore(conn)
		a.store = store
		l.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Name).Msg("analysis history enabled")
	}

	a.service = service.NewQualityService(client, store, l)
	return a, nil
}

func (a *app) Close() {
	if a.conn == nil {
		return
	}
	if sqlDB, err := a.conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
