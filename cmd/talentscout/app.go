package main

import (
	"log/slog"

	"github.com/talentscout/talentscout/internal/config"
	"github.com/talentscout/talentscout/internal/inference"
	"github.com/talentscout/talentscout/internal/questions"
	"github.com/talentscout/talentscout/internal/storage"
)

// app holds the core components every command works with.
type app struct {
	cfg   config.Config
	store *storage.Store
	gen   *questions.Generator
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Log.Level)
	return newApp(cfg), nil
}

func newApp(cfg config.Config) *app {
	store := storage.New(cfg.Storage.Path, storage.Options{
		AssessmentEmail: cfg.Assessment.Email,
		Deadline:        cfg.Assessment.Deadline,
		SerializeWrites: cfg.Storage.SerializeWrites,
	})

	var remote questions.TextGenerator
	if cfg.Inference.APIToken != "" {
		remote = inference.NewClientWithBaseURL(cfg.Inference.APIToken, cfg.Inference.BaseURL, cfg.Inference.Model)
	} else {
		slog.Warn("no inference API token configured, questions will come from local templates")
	}

	gen := questions.NewGenerator(remote, questions.Options{
		Temperature:  cfg.Inference.Temperature,
		MaxNewTokens: cfg.Inference.MaxNewTokens,
		Timeout:      cfg.Inference.Timeout,
		MinLength:    cfg.Questions.MinLength,
	})

	return &app{cfg: cfg, store: store, gen: gen}
}
