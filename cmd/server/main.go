package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/genai"

	"github.com/shouni/gemini-tryon-kit/pkg/config"
	"github.com/shouni/gemini-tryon-kit/pkg/generator"
	"github.com/shouni/gemini-tryon-kit/pkg/server"
	"github.com/shouni/gemini-tryon-kit/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "YAML設定ファイルのパス (省略時は環境変数のみ)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(*configPath); err != nil {
		slog.Error("サーバーが異常終了しました", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return err
	}

	core, err := generator.NewGeminiImageCore(client.Models, generator.CoreOptions{
		CompressInputs:     cfg.Generator.CompressInputs,
		CompressionQuality: cfg.Generator.CompressionQuality,
		Timeout:            cfg.Gemini.Timeout,
	})
	if err != nil {
		return err
	}
	gen, err := generator.NewGeminiGenerator(core, cfg.Gemini.Model)
	if err != nil {
		return err
	}

	var sink storage.ImageSink = storage.NopSink{}
	if cfg.Output.Enabled {
		sink = storage.NewFileSink(cfg.Output.Dir, cfg.Output.PerRequest)
	}

	handler, err := server.NewHandler(gen, sink, cfg.Server.MaxUploadBytes)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("サーバーを起動します",
			"addr", cfg.Server.Addr,
			"model", gen.Model(),
			"output_enabled", cfg.Output.Enabled,
			"output_dir", cfg.Output.Dir,
			"per_request", cfg.Output.PerRequest)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("シャットダウンを開始します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
