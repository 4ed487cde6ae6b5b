// Package main is the KrishiSaathi CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/krishisaathi/krishisaathi/internal/chatbot"
	"github.com/krishisaathi/krishisaathi/internal/config"
	"github.com/krishisaathi/krishisaathi/internal/corpus"
	"github.com/krishisaathi/krishisaathi/internal/models"
	"github.com/krishisaathi/krishisaathi/internal/predict"
	"github.com/krishisaathi/krishisaathi/internal/server"
	"github.com/krishisaathi/krishisaathi/internal/storage"
	"github.com/krishisaathi/krishisaathi/internal/translate"
	"github.com/krishisaathi/krishisaathi/internal/watcher"
	"github.com/krishisaathi/krishisaathi/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/krishisaathi/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "chat":
		runChat()
	case "prepare":
		runPrepare()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("krishisaathi version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// components holds everything the server command wires together.
type components struct {
	Storage    storage.Storage
	Engine     *chatbot.Engine
	Predictor  *predict.Predictor
	Translator *translate.Translator
}

// Close releases storage and model sessions.
func (c *components) Close() {
	if c.Predictor != nil {
		_ = c.Predictor.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	db, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	var kcc *corpus.KCCClient
	if cfg.KCC.Enabled {
		kcc = corpus.NewKCCClient(&cfg.KCC, logger)
	}
	store := corpus.NewStore(&cfg.Corpus, kcc, logger)
	engine := chatbot.NewEngine(
		&cfg.Chatbot, &cfg.Embedding, store, db,
		cfg.Storage.VectorSnapshotPath, logger,
	)

	return &components{
		Storage:    db,
		Engine:     engine,
		Predictor:  predict.NewPredictor(&cfg.Predict, logger),
		Translator: translate.NewTranslator(&cfg.Translate, logger),
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer comps.Close()

	// Corpus preparation runs in the background so the server accepts
	// requests immediately; chat answers with a preparing message until the
	// first snapshot is installed.
	go func() {
		if err := comps.Engine.Initialize(context.Background()); err != nil {
			logger.Error("corpus initialization failed", zap.Error(err))
		}
	}()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Corpus.Watch {
		watchOpts := []watcher.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(cfg.Corpus.Dir, func() {
			logger.Info("corpus sources changed, rebuilding")
			if err := comps.Engine.Rebuild(context.Background()); err != nil {
				logger.Warn("corpus rebuild failed", zap.Error(err))
			}
		}, watchOpts...)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Warn("Failed to start corpus watcher", zap.Error(err))
		} else {
			defer watchSvc.Stop()
		}
	}

	srv := server.NewServer(comps.Engine, comps.Predictor, comps.Translator, comps.Storage, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer locally without a server)")
	language := fs.String("language", "en", "reply language code")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: krishisaathi chat [flags] <question>")
		os.Exit(1)
	}
	question := strings.TrimSpace(strings.Join(fs.Args(), " "))

	if *serverURL != "" {
		resp, err := chatViaHTTP(*serverURL, question, *language)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Chat failed: %v\n", err)
			os.Exit(1)
		}
		printChatResponse(resp)
		return
	}

	// Local mode: build the pipeline in-process.
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer comps.Close()

	ctx := context.Background()
	if err := comps.Engine.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Corpus initialization failed: %v\n", err)
		os.Exit(1)
	}
	resp := comps.Engine.Respond(ctx, question, *language)
	if *language != "en" {
		resp.Reply = comps.Translator.Translate(ctx, resp.Reply, "en", *language)
	}
	printChatResponse(&resp)
}

func chatViaHTTP(serverURL, question, language string) (*models.ChatResponse, error) {
	payload, err := json.Marshal(models.ChatRequest{Text: question, Language: language})
	if err != nil {
		return nil, err
	}
	httpResp, err := http.Post(
		strings.TrimRight(serverURL, "/")+"/api/v1/chat",
		"application/json", bytes.NewReader(payload),
	)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", httpResp.Status)
	}
	var resp models.ChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func printChatResponse(resp *models.ChatResponse) {
	fmt.Println(resp.Reply)
	fmt.Printf("\n[%s, %dms]\n", resp.Tier, resp.QueryTime)
}

// runPrepare builds the corpus snapshot ahead of time so the next server
// start restores it instead of re-ingesting the sources.
func runPrepare() {
	fs := flag.NewFlagSet("prepare", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer comps.Close()

	start := time.Now()
	if err := comps.Engine.Rebuild(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Corpus build failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Corpus ready: %d records in %s (config %s)\n",
		comps.Engine.CorpusSize(), time.Since(start).Round(time.Millisecond), resolvedConfigPath)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	httpResp, err := http.Get(strings.TrimRight(*serverURL, "/") + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status request failed: %v\n", err)
		os.Exit(1)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Server returned %s\n", httpResp.Status)
		os.Exit(1)
	}

	var status map[string]interface{}
	if err := json.NewDecoder(httpResp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode status: %v\n", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(status, "", "  ")
	fmt.Println(string(out))
}

func printUsage() {
	fmt.Println(`KrishiSaathi - AI agricultural assistant

Usage:
  krishisaathi <command> [flags]

Commands:
  server    Start the HTTP API server
  chat      Ask a question (against a running server, or locally with -server "")
  prepare   Build the corpus snapshot offline
  status    Show server status
  version   Show version
  help      Show this help

Examples:
  krishisaathi server
  krishisaathi server -config ./config.yaml -debug
  krishisaathi chat how much urea for wheat
  krishisaathi chat -language hi "गेहूं के लिए कितना यूरिया"
  krishisaathi prepare -config ./config.yaml
  krishisaathi status`)
}
