package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hack2infi/mindmate/backend/internal/config"
	"github.com/hack2infi/mindmate/backend/internal/handler"
	"github.com/hack2infi/mindmate/backend/internal/handler/voice"
	"github.com/hack2infi/mindmate/backend/internal/service/generation"
	"github.com/hack2infi/mindmate/backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize the generation service; without Ark credentials it serves
	// the fixed supportive fallback.
	genSvc := newGenerationService(ctx, cfg)

	if !cfg.Speech.Enabled {
		log.Println("warning: OPENAI_API_KEY not set, transcription and synthesis will fail")
	}
	speechSvc := speech.NewService(cfg.Speech.APIKey, cfg.Speech.Voice)

	voiceHandler := voice.New(speechSvc, speechSvc, genSvc)
	router := handler.NewRouter(voiceHandler)

	startServer(ctx, cfg.Server, router)
}

func newGenerationService(ctx context.Context, cfg *config.Config) *generation.Service {
	disabled := func() *generation.Service {
		svc, err := generation.NewService(ctx, nil)
		if err != nil {
			log.Fatalf("failed to initialize generation service: %v", err)
		}
		return svc
	}

	if !cfg.AI.Enabled() {
		log.Println("ark credentials not configured, replies fall back to the supportive default")
		return disabled()
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Printf("warning: failed to initialize chat model: %v", err)
		return disabled()
	}

	svc, err := generation.NewService(ctx, chatModel)
	if err != nil {
		log.Printf("warning: failed to build generation chain: %v", err)
		return disabled()
	}

	log.Println("generation service initialized successfully")
	return svc
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("mindmate backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
