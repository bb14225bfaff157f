// Command rallyctl drives the Rallypoint panels from a terminal. It keeps
// its session cookie and theme in a small SQLite file under the data dir.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// errReported means the failure was already printed as alerts.
var errReported = errors.New("reported")

var (
	flagDataDir string
	flagBackend string
	rt          *env
)

var rootCmd = &cobra.Command{
	Use:           "rallyctl",
	Short:         "Browse events, RSVP and message friends from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		rt, err = setup(flagDataDir, flagBackend)
		if err != nil {
			return err
		}
		rt.out = cmd.OutOrStdout()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return rt.close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "where session and preferences are stored (overrides RALLY_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "backend base URL (overrides RALLY_BACKEND_URL)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
