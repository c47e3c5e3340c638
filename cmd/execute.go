// Package cmd contains the command-line entry points for the sous agent.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lexia-ai/sous/internal/log"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "0.1.0"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

// Execute is the main entry point for the sous binary.
//
// Commands:
//
//	sous [serve]    Start the HTTP agent server (default)
//	sous version    Show version information
//	sous help       Show usage
func Execute() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			printVersionInfo()
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "serve":
			// Fall through to the server below.
		default:
			printHelp()
			return fmt.Errorf("unknown command: %s", os.Args[1])
		}
	}

	logger := initLogger()
	slog.SetDefault(logger)

	return runServe(logger)
}

// initLogger builds the structured logger.
//
// Log level is controlled by the DEBUG environment variable:
//   - DEBUG set (any value): debug level logging
//   - DEBUG not set: info level logging
func initLogger() log.Logger {
	return log.New(log.Config{
		Level: logLevel(),
		JSON:  os.Getenv("SOUS_LOG_TEXT") == "",
	})
}

func logLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// printHelp displays usage for the sous binary.
func printHelp() {
	fmt.Println("sous - ingredient extraction and shopping-link agent")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sous [serve]       Start the HTTP agent server (default)")
	fmt.Println("  sous version       Show version information")
	fmt.Println("  sous help          Show this help")
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  POST /api/v1/send_message   Chat pipeline (SSE)")
	fmt.Println("  POST /api/v1/menu_gallery   Menu image gallery (SSE)")
	fmt.Println("  GET  /api/v1/search         Formatted web search")
	fmt.Println("  GET  /api/v1/threads        Conversation threads")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  SOUS_ADDR          Listen address (default 127.0.0.1:8002)")
	fmt.Println("  SERPER_API_KEY     Server-side key for GET /api/v1/search")
	fmt.Println("  DEBUG              Enable debug logging")
	fmt.Println()
	fmt.Println("Per-request OpenAI and Serper keys travel in the request's variables list.")
}
