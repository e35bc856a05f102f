// Morvo: marketing automation backend.
//
// Five specialist agents share memory, synchronized context, and smart
// alerts, exposed to AI tooling over MCP (stdio transport).
//
// Usage:
//
//	morvo serve -config morvo.yaml   # Start MCP server with background monitoring
//	morvo chat -config morvo.yaml -agent M1 -company acme -prompt "..."
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/morvo-ai/engine/engine"
	"github.com/morvo-ai/engine/observability"
	"github.com/morvo-ai/engine/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Best effort: OPENAI_API_KEY and friends may live in a .env file.
	_ = godotenv.Load()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "chat":
		err = runChat(os.Args[2:])
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(args []string) error {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	configFile := flags.String("config", "", "Path to morvo config YAML file")
	verbose := flags.Bool("verbose", false, "Enable verbose logging to stderr")
	if err := flags.Parse(args); err != nil {
		return err
	}

	e, err := newEngine(*configFile, *verbose)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Shutdown(5 * time.Second); err != nil {
			log.Printf("WARNING: shutdown: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background opportunity monitoring, when companies are configured.
	go func() {
		err := e.Watch(ctx)
		if err != nil && !errors.Is(err, engine.ErrNoCompanies) && !errors.Is(err, context.Canceled) {
			log.Printf("WARNING: alert monitor stopped: %v", err)
		}
	}()

	// Logs go to stderr; stdout belongs to the MCP stdio transport.
	return mcpserver.ServeStdio(server.New(e))
}

func runChat(args []string) error {
	flags := flag.NewFlagSet("chat", flag.ExitOnError)
	configFile := flags.String("config", "", "Path to morvo config YAML file")
	agentID := flags.String("agent", "M5", "Agent to address (M1..M5)")
	companyID := flags.String("company", "", "Company the question concerns (required)")
	prompt := flags.String("prompt", "", "Prompt to send to the agent (required)")
	verbose := flags.Bool("verbose", false, "Enable verbose logging to stderr")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *companyID == "" || *prompt == "" {
		fmt.Fprintln(os.Stderr, "Usage: morvo chat -company <id> -prompt <text>")
		flags.PrintDefaults()
		os.Exit(1)
	}

	e, err := newEngine(*configFile, *verbose)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Shutdown(5 * time.Second); err != nil {
			log.Printf("WARNING: shutdown: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reply, err := e.Chat(ctx, *companyID, *agentID, *prompt)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	fmt.Println(reply)
	return nil
}

func newEngine(configFile string, verbose bool) (*engine.Engine, error) {
	cfg := engine.DefaultConfig()
	if configFile != "" {
		loaded, err := engine.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Rebind the shared "slog" observer so every subsystem configured with it
	// emits through the leveled stderr logger.
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	e, err := engine.New(context.Background(), &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return e, nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Morvo — marketing automation backend

Usage:
  morvo serve -config <file>                         Start the MCP server (stdio)
  morvo chat -config <file> -agent <id> -company <id> -prompt <text>
                                                     One-shot agent conversation

Flags:
  -config   Path to YAML configuration (defaults apply when omitted)
  -verbose  Verbose logging to stderr
`)
}
