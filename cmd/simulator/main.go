package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var (
	serverURL   = flag.String("server", "ws://localhost:8000/ws/voice", "Voice session WebSocket URL")
	utterance   = flag.String("say", "", "Send a single utterance and wait for audio, then exit")
	interactive = flag.Bool("interactive", false, "Read utterances from stdin")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	// Setup logger
	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	simulator := NewSimulator(*serverURL, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down simulator...")
		simulator.Stop()
		os.Exit(0)
	}()

	if err := simulator.Connect(); err != nil {
		logger.Fatal("Failed to connect to server", zap.Error(err))
	}
	defer simulator.Stop()

	switch {
	case *utterance != "":
		if err := simulator.SendUtterance(*utterance); err != nil {
			logger.Fatal("Failed to send utterance", zap.Error(err))
		}
		simulator.WaitForAudio()
	case *interactive:
		simulator.RunInteractive()
	default:
		flag.Usage()
		os.Exit(2)
	}
}
