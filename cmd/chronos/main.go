package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chronoslabs/chronos/cache"
	"github.com/chronoslabs/chronos/component"
	"github.com/chronoslabs/chronos/graph"
	"github.com/chronoslabs/chronos/llm"
	"github.com/chronoslabs/chronos/logger"
	"github.com/chronoslabs/chronos/ocr"
	"github.com/chronoslabs/chronos/pubmed"
	"github.com/chronoslabs/chronos/server"
)

const serviceName = "chronos"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}

	logger.Init(cfg.Logger, serviceName)
	log := logger.GetGlobalLogger()

	if err := run(cfg, log); err != nil {
		log.Error("Service terminated with error", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}
}

func run(cfg *AppConfig, log *logger.Logger) error {
	graphClient, err := graph.New(cfg.Graph, log)
	if err != nil {
		return err
	}

	cacheClient, err := cache.New(cfg.Cache, log)
	if err != nil {
		return err
	}

	pubmedClient, err := pubmed.New(cfg.PubMed, cacheClient, log)
	if err != nil {
		return err
	}

	llmClient, err := llm.New(cfg.LLM, log)
	if err != nil {
		return err
	}

	ocrProcessor := ocr.New(cfg.OCR, log)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	srv.RegisterHealthEndpoint(serviceName, healthChecker(graphClient, cacheClient))
	srv.RegisterRoutes(server.NewHandlers(graphClient, pubmedClient, llmClient, ocrProcessor, log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Server stop failed", logger.Fields(logger.FieldError, err.Error()))
	}
	for _, c := range []component.Component{graphClient, cacheClient} {
		if err := c.Stop(shutdownCtx); err != nil {
			log.Error("Component stop failed", logger.Fields(logger.FieldComponent, c.Name(), logger.FieldError, err.Error()))
		}
	}

	log.Info("Shutdown complete")
	return nil
}

// healthChecker reports component health for the /health endpoint.
func healthChecker(components ...component.Component) func(ctx context.Context) []component.Health {
	return func(ctx context.Context) []component.Health {
		out := make([]component.Health, 0, len(components))
		for _, c := range components {
			out = append(out, c.Health(ctx))
		}
		return out
	}
}
