package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/lmchat/lmchat/internal/chat"
	"github.com/lmchat/lmchat/internal/config"
	"github.com/lmchat/lmchat/internal/gateway"
	"github.com/lmchat/lmchat/internal/store"
)

func main() {
	configPath := flag.String("config", "lmchat.toml", "path to the TOML configuration file")
	dbPath := flag.String("db", "", "conversation database to open at startup")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration",
			zap.Error(err),
			zap.String("configPath", *configPath))
	}

	candidates := make([]gateway.Candidate, 0, len(cfg.Gateway.Candidates))
	for _, name := range cfg.Gateway.Candidates {
		cand, err := gateway.NewOpenAICandidate(name, cfg.Gateway.BaseURL, cfg.Gateway.APIKey)
		if err != nil {
			logger.Fatal("failed to initialize candidate",
				zap.Error(err),
				zap.String("candidate", name))
		}
		candidates = append(candidates, cand)
	}

	gw := gateway.New(candidates, cfg.Gateway.Timeout(), cfg.Gateway.MaxPromptTokens, logger)

	var initial *store.Store
	if *dbPath != "" {
		initial, err = store.Open(*dbPath)
		if err != nil {
			logger.Fatal("failed to initialize database",
				zap.Error(err),
				zap.String("dbPath", *dbPath))
		}
	}

	repl := chat.New(gw, initial, logger)
	if err := repl.Run(context.Background()); err != nil {
		logger.Fatal("session ended with error", zap.Error(err))
	}
}
