package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/config"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/httpapi"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/jobs"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/llm"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/media"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/retention"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/transcribe"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/translator"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/pkg/log"
)

type scheduler interface {
	Schedule(ctx context.Context) error
}

type cronEngine interface {
	Start()
	Stop() context.Context
}

type httpServer interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

func main() {
	// .env is optional, real environments set variables directly
	_ = godotenv.Load()

	log.InitLogger(log.ParseLevel(os.Getenv("LOG_LEVEL")))

	cfg, err := config.NewFromEnv()
	if err != nil {
		stdlog.Fatal("Failed to load configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stdlog.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	for _, dir := range cfg.Data.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	llmClient, err := llm.NewClient(&llm.Config{
		APIKey:      cfg.LLM.APIKey,
		APIURL:      cfg.LLM.APIURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		SiteURL:     cfg.LLM.SiteURL,
		AppName:     cfg.LLM.AppName,
	})
	if err != nil {
		return err
	}

	transcriber, err := transcribe.NewClient(&transcribe.Config{
		APIKey:  cfg.Transcribe.APIKey,
		APIURL:  cfg.Transcribe.APIURL,
		Model:   cfg.Transcribe.Model,
		Timeout: cfg.Transcribe.Timeout,
	})
	if err != nil {
		return err
	}

	processor := media.NewProcessor(media.ProcessorConfig{
		AudioDir:        cfg.Data.AudioDir,
		SRTDir:          cfg.Data.SRTDir,
		ProcessedDir:    cfg.Data.ProcessedDir,
		MaxVideoSeconds: cfg.Limits.MaxVideoSeconds,
		BurnIn:          cfg.Render.BurnIn,
	})

	store := jobs.NewStore()
	executor := jobs.NewExecutor(store, jobs.Pipeline{
		Downloader:  media.NewDownloader(cfg.Data.UploadDir),
		Extractor:   processor,
		Transcriber: transcriber,
		Translator:  translator.NewLLMTranslator(llmClient),
		Renderer:    processor,
	})
	manager := jobs.NewManager(store, executor)

	server := httpapi.NewServer(manager, store,
		httpapi.WithUploadDir(cfg.Data.UploadDir),
		httpapi.WithMaxUploadBytes(cfg.Limits.MaxUploadBytes),
	)

	cronRunner := cron.New()
	sweeper := retention.NewSweeper(
		store,
		cfg.Data.Dirs(),
		time.Duration(cfg.Retention.TTLHours)*time.Hour,
		cfg.Retention.CronExpr,
		cronRunner,
	)

	return runWithComponents(ctx, cfg, sweeper, cronRunner, server)
}

func runWithComponents(
	ctx context.Context,
	cfg *config.Config,
	sched scheduler,
	cronRunner cronEngine,
	httpSrv httpServer,
) error {
	if err := sched.Schedule(ctx); err != nil {
		return err
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}
