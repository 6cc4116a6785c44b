// Package main provides the memostack terminal application, a personal
// memo stack with a bounded hot working set and an unbounded cold
// archive, persisted to a local SQLite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	appconfig "github.com/lanefield/memostack/pkg/config"
	"github.com/lanefield/memostack/pkg/logging"
	"github.com/lanefield/memostack/pkg/memo"
	"github.com/lanefield/memostack/pkg/storage"
	"github.com/lanefield/memostack/pkg/tui"
)

const version = "0.1.0"

// appFlags holds the parsed command line options.
type appFlags struct {
	DBPath      string
	ConfigPath  string
	ShowVersion bool
}

func main() {
	flags := parseFlags()

	if flags.ShowVersion {
		fmt.Printf("memostack v%s\n", version)
		return
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, flags); err != nil {
		log.Fatalf("memostack: %v", err)
	}
}

func run(ctx context.Context, flags appFlags) error {
	// NewLogger degrades to a stderr logger when the log directory is
	// unavailable, so an error here is not fatal.
	logger, err := logging.NewLogger("main")
	if err != nil {
		logger.Warnf("session log unavailable, logging to stderr: %v", err)
	}
	defer logger.Close()

	configPath := flags.ConfigPath
	if configPath == "" {
		configPath, err = appconfig.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
	}
	cfg, err := appconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Infof("config loaded from %s (hot capacity %d)", configPath, cfg.MaxHotCount)

	dbPath := flags.DBPath
	if dbPath == "" {
		dbPath, err = storage.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to resolve database path: %w", err)
		}
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	memos, stackOrder, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load memos: %w", err)
	}
	logger.Infof("loaded %d memos from %s", len(memos), dbPath)

	mgr := memo.NewManager(store, cfg.MaxHotCount)
	if err := mgr.Restore(memos, stackOrder); err != nil {
		return fmt.Errorf("failed to restore memo state: %w", err)
	}

	return tui.NewExecutor(mgr, cfg, logger).Run(ctx)
}

func parseFlags() appFlags {
	var flags appFlags
	flag.StringVar(&flags.DBPath, "db", "", "Path to the SQLite database (default ~/.memostack/memos.db)")
	flag.StringVar(&flags.ConfigPath, "config", "", "Path to the config file (default ~/.memostack/config.yaml)")
	flag.BoolVar(&flags.ShowVersion, "version", false, "Show version and exit")
	flag.Parse()
	return flags
}
