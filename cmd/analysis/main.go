package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tdnguyen/jira-planner/internal/agents"
	"github.com/tdnguyen/jira-planner/internal/config"
)

func main() {
	// Check command line arguments
	if len(os.Args) > 1 && os.Args[1] == "client" {
		fmt.Println("Client functionality not implemented in this file.")
		fmt.Println("Please use the test_a2a client instead.")
		return
	}

	// Create a new configuration
	cfg := config.NewConfig()

	// Ensure agent name is set correctly
	cfg.AgentName = config.AnalysisAgentName

	// Update agent URL to match the port
	cfg.AgentURL = fmt.Sprintf("http://%s:%d", cfg.ServerHost, cfg.ServerPort)

	// Log the configuration
	log.Printf("AnalysisAgent configured with port: %d", cfg.ServerPort)

	// Create a new AnalysisAgent
	agent := agents.NewAnalysisAgent(cfg)

	// Print usage information
	fmt.Println("Starting AnalysisAgent server...")
	fmt.Printf("Server will listen on %s:%d\n", cfg.ServerHost, cfg.ServerPort)
	fmt.Println("To run the client example, use: make test-client")

	// Create a context that will be canceled on SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the server and handle shutdown
	if err := agent.StartServer(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}
