package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/blinklabs-io/praos-ledger/internal/config"
	"github.com/blinklabs-io/praos-ledger/internal/logging"
	"github.com/blinklabs-io/praos-ledger/internal/storage"
	"github.com/blinklabs-io/praos-ledger/internal/version"
)

const (
	programName = "ledger-core"
)

var cmdlineFlags struct {
	configFile string
	version    bool
}

func main() {
	flag.StringVar(&cmdlineFlags.configFile, "config", "", "path to config file to load")
	flag.BoolVar(&cmdlineFlags.version, "version", false, "show version")
	flag.Parse()

	if cmdlineFlags.version {
		fmt.Printf("%s %s\n", programName, version.GetVersionString())
		os.Exit(0)
	}

	// Load config
	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("Failed to load config: %s\n", err)
		os.Exit(1)
	}

	// Configure logging
	logging.Configure()
	logger := logging.GetLogger()
	// Sync logger on exit
	defer func() {
		if err := logger.Sync(); err != nil {
			// We don't actually care about the error here, but we have to do something
			// to appease the linter
			return
		}
	}()

	// Start debug listener
	if cfg.Debug.ListenPort > 0 {
		logger.Infof("starting debug listener on %s:%d", cfg.Debug.ListenAddress, cfg.Debug.ListenPort)
		go func() {
			err := http.ListenAndServe(fmt.Sprintf("%s:%d", cfg.Debug.ListenAddress, cfg.Debug.ListenPort), nil)
			if err != nil {
				logger.Fatalf("failed to start debug listener: %s", err)
			}
		}()
	}

	store := storage.GetStorage()
	if err := store.Load(); err != nil {
		logger.Fatalf("failed to open storage: %s", err)
	}
	defer store.Close()

	chainLength, tipHash, err := store.GetTip()
	if err != nil {
		logger.Fatalf("failed to read chain tip: %s", err)
	}
	if chainLength == 0 {
		logger.Infof("starting from genesis (network %s)", cfg.Network)
	} else {
		logger.Infof("resuming at chain length %d, tip %x", chainLength, tipHash)
	}

	// TODO: wire chain sync (C8 fragment pipeline + fork choice), leadership
	// schedule evaluation (C7), and block production once the node's network
	// transport layer exists.
	select {}
}
