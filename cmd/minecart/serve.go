package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minecart/internal/platform/tui"
	"github.com/vovakirdan/minecart/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the minecart SSH server",
	Long: `Start an SSH server that lets users connect and ride.

Each SSH connection rides its own cart on a fresh seed. Runs are logged
under the SSH user name in the server's database, so every rider shares
one runs board.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.minecart/host_key

Examples:
  minecart serve                           # Listen on :23234
  minecart serve --ssh :2222               # Listen on port 2222
  minecart serve --host-key ./my_host_key  # Use specific host key
  minecart serve --db ./runs.db            # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("minecart-ssh", false)
	if err != nil {
		exitf("%v", err)
	}
	defer closeLog()

	setup, err := loadSetup(logger)
	if err != nil {
		exitf("%v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database, runs will not be logged", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
	}
	server, err := tui.NewSSHServer(cfg, setup, store)
	if err != nil {
		exitf("creating server: %v", err)
	}

	fmt.Printf("Starting minecart SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
	}
}
