package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicebridge/config"
	"voicebridge/gemini"
	"voicebridge/metrics"
	"voicebridge/server"
	"voicebridge/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One Gemini client for the whole process; it is a stateless
	// factory, safe for concurrent session opening
	geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LiveModel, cfg.TranscriptionModel)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	m := metrics.New()

	// Create session manager and start cleanup routine
	sessionManager := session.NewManager(cfg, geminiClient, m)
	go sessionManager.StartCleanupRoutine(ctx)

	srv := server.New(cfg, sessionManager)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\nReceived shutdown signal...")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped")
}
