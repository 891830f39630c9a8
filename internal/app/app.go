// Package app wires configuration, stores, generative clients and services
// into a runnable HTTP server.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"opostudy/internal/artifact"
	"opostudy/internal/chat"
	"opostudy/internal/config"
	"opostudy/internal/handler"
	"opostudy/internal/llm"
	"opostudy/internal/progress"
	"opostudy/internal/server"
	"opostudy/internal/study"
	"opostudy/internal/syllabus"
)

type App struct {
	server *server.Server
	cli    llm.Client
	store  progress.Store
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	cli, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("llm backend: %s", cli.Name())

	store, err := newProgressStore(ctx, cfg)
	if err != nil {
		cli.Close()
		return nil, err
	}

	artifacts := newArtifactStore(cfg)

	studySvc := study.NewService(cli, store, cfg.Cache.Size, cfg.Cache.TTL)
	chatSvc := chat.NewService(cli, catalog)

	h := handler.New(catalog, studySvc, chatSvc, artifacts)
	srv := server.New(cfg.Port, server.NewMux(h))

	return &App{
		server: srv,
		cli:    cli,
		store:  store,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.cli.Close(); err == nil {
		err = cerr
	}
	if serr := a.store.Close(); err == nil {
		err = serr
	}
	return err
}

func loadCatalog(cfg *config.Config) (*syllabus.Catalog, error) {
	if cfg.SyllabusPath == "" {
		return syllabus.Default(), nil
	}
	catalog, err := syllabus.Load(cfg.SyllabusPath)
	if err != nil {
		return nil, fmt.Errorf("load syllabus %s: %w", cfg.SyllabusPath, err)
	}
	return catalog, nil
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		return llm.NewGeminiClient(ctx, cfg.LLM.GeminiModel)
	case "groq":
		return llm.NewGroqClient("", cfg.LLM.GroqModel), nil
	case "fake":
		return llm.NewFakeClient(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func newProgressStore(ctx context.Context, cfg *config.Config) (progress.Store, error) {
	switch cfg.Progress.Backend {
	case "memory":
		return progress.NewMemoryStore(), nil
	case "disk":
		return progress.NewDiskStore(cfg.Progress.Dir)
	case "postgres":
		return progress.NewPostgresStore(cfg.Progress.DSN)
	case "redis":
		return progress.NewRedisStore(ctx, cfg.Progress.RedisAddr, os.Getenv("REDIS_PASSWORD"), 0)
	default:
		return nil, fmt.Errorf("unknown progress backend %q", cfg.Progress.Backend)
	}
}

// newArtifactStore prefers the configured object store and falls back to a
// local directory. Export stays available either way; nil only on setup
// failure of both.
func newArtifactStore(cfg *config.Config) artifact.Store {
	if cfg.Artifact.Enabled && strings.TrimSpace(cfg.Artifact.Endpoint) != "" {
		s3, err := artifact.NewS3Store(artifact.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err == nil {
			return s3
		}
		log.Printf("artifact object store unavailable, using disk: %v", err)
	}
	disk, err := artifact.NewDiskStore(cfg.Artifact.Dir)
	if err != nil {
		log.Printf("artifact disk store unavailable, export disabled: %v", err)
		return nil
	}
	return disk
}
