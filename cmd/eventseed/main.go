package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alpha-prosoft/eventseed/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "eventseed",
		Short:   "Seed test events with template aggregate data",
		Version: version,
		Long: `eventseed creates a test event in the event tournament service and
publishes a template aggregate for it, rewritten onto the new event's
identifiers, to the service's aggregate store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.RemapCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
