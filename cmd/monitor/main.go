package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/hack2infi/mindmate/backend/internal/config"
	"github.com/hack2infi/mindmate/backend/internal/monitor"
	"github.com/hack2infi/mindmate/backend/internal/service/generation"
	"github.com/hack2infi/mindmate/backend/internal/transport/bridge"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	bridgeURL := cli.StringP("bridge", "b", "", "Chat bridge websocket URL (overrides MONITOR_BRIDGE_URL)")
	pollInterval := cli.DurationP("poll", "p", 0, "Poll interval (overrides MONITOR_POLL_INTERVAL)")
	cooldown := cli.DurationP("cooldown", "c", 0, "Response cooldown (overrides MONITOR_COOLDOWN)")
	cli.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("warning: failed to load env file %s: %v", *envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *bridgeURL != "" {
		cfg.Monitor.BridgeURL = *bridgeURL
	}
	if *pollInterval > 0 {
		cfg.Monitor.PollInterval = *pollInterval
	}
	if *cooldown > 0 {
		cfg.Monitor.Cooldown = *cooldown
	}

	gen := newGenerator(ctx, cfg)

	bridgeCfg := bridge.DefaultConfig(cfg.Monitor.BridgeURL)
	bridgeCfg.FetchWindow = cfg.Monitor.FetchWindow
	chat := bridge.New(bridgeCfg)
	defer chat.Close()

	catalog := monitor.NewMediaCatalog(
		cfg.Media.Images,
		cfg.Media.VoiceNotes,
		cfg.Media.Videos,
		cfg.Media.CalmingLinks,
	)

	orch := monitor.New(
		chat,
		gen,
		monitor.NewDedup(cfg.Monitor.DedupCapacity),
		monitor.NewCooldown(cfg.Monitor.Cooldown),
		catalog,
		monitor.Options{
			PollInterval:     cfg.Monitor.PollInterval,
			ErrorBackoff:     cfg.Monitor.ErrorBackoff,
			DispatchAttempts: cfg.Monitor.DispatchAttempts,
			RetryDelay:       cfg.Monitor.RetryDelay,
		},
	)

	log.Printf("[monitor] watching bridge at %s (poll %v, cooldown %v)",
		cfg.Monitor.BridgeURL, cfg.Monitor.PollInterval, cfg.Monitor.Cooldown)

	if err := orch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("monitor stopped: %v", err)
	}
	log.Println("[monitor] shut down")
}

// newGenerator builds the reply generator. Missing credentials degrade to
// the fixed supportive fallback rather than aborting the daemon.
func newGenerator(ctx context.Context, cfg *config.Config) *generation.Service {
	buildCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if cfg.AI.Enabled() {
		if chatModel, err := cfg.AI.NewChatModel(buildCtx); err != nil {
			log.Printf("warning: failed to initialize chat model: %v", err)
		} else if svc, err := generation.NewService(buildCtx, chatModel); err != nil {
			log.Printf("warning: failed to build generation chain: %v", err)
		} else {
			log.Println("generation service initialized successfully")
			return svc
		}
	} else {
		log.Println("ark credentials not configured, replies fall back to the supportive default")
	}

	svc, err := generation.NewService(buildCtx, nil)
	if err != nil {
		log.Fatalf("failed to initialize generation service: %v", err)
	}
	return svc
}
