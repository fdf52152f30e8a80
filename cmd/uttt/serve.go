package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-uttt/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own menu and game against the computer or
a friend at the same keyboard. Finished matches go to the shared
database, so history shows every session's games.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.uttt/host_key

Examples:
  uttt serve                           # Listen on :23234 with auto-generated key
  uttt serve --ssh :2222               # Listen on port 2222
  uttt serve --host-key ./my_host_key  # Use specific host key
  uttt serve --db ./uttt.db            # Use specific database

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
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, false, "uttt-ssh")
	defer closeLog()

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	srvCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Variant:     cfg.Variant(),
		Match:       matchOptions(cfg),
	}

	server, err := tui.NewSSHServer(srvCfg, store, logger)
	if err != nil {
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting uttt SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
