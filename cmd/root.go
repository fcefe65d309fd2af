package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chukul/sentinelctl/internal"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	logger     = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

func printLogo() {
	// Gradient colors (Teal -> Blue)
	// Teal: 0, 200, 170
	// Blue: 40, 90, 255
	title := "  sentinelctl"

	fmt.Println()
	for i, char := range title {
		ratio := float64(i) / float64(len(title))
		r := int(0*(1-ratio) + 40*ratio)
		g := int(200*(1-ratio) + 90*ratio)
		b := int(170*(1-ratio) + 255*ratio)
		fmt.Printf("\x1b[1;38;2;%d;%d;%dm%c\x1b[0m", r, g, b, char)
	}
	fmt.Println()
	fmt.Println("\x1b[1m  Sensaphone Sentinel from the command line, one cached session at a time\x1b[0m")
	fmt.Println()
}

var rootCmd = &cobra.Command{
	Use:           "sentinelctl",
	Short:         "sentinelctl talks to the Sensaphone Sentinel REST API",
	Long:          `sentinelctl reads Sensaphone Sentinel devices, zones and history, reusing one cached login session across runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.sentinelctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log API calls and session decisions to stderr")
}

// Execute runs the CLI
func Execute() {
	if len(os.Args) <= 1 || os.Args[1] == "help" {
		printLogo()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// openApp loads the config and wires the client, store and session manager.
// Callers must Close the returned App.
func openApp(ctx context.Context) (*internal.App, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return internal.NewApp(ctx, cfg, logger)
}

// withApp runs fn against a freshly opened App and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *internal.App) error) error {
	ctx := cmd.Context()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("closing store", "error", err)
		}
	}()
	return fn(ctx, app)
}
