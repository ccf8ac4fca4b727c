package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// AnnotationStandalone marks commands that run without the application container.
const AnnotationStandalone = "priora/standalone"

// ErrNotInitialized is returned by commands run before the application is wired.
var ErrNotInitialized = errors.New("application not initialized")

// Bootstrap builds the application for the config file named by --config.
// The returned function releases its resources.
type Bootstrap func(ctx context.Context, configPath string) (*App, func(), error)

var (
	cfgFile   string
	verbose   bool
	logger    *slog.Logger
	bootstrap Bootstrap
	shutdown  func()
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "priora",
	Short: "Priora - adaptive task prioritization",
	Long: `Priora keeps a personal task list, reads due dates and effort out of
free text, and asks a scoring engine which task deserves attention next.

Weights adapt to the feedback you give on suggestions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx = sharedApplication.WithCorrelationID(ctx, info.correlationID)
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
		logger.DebugContext(ctx, "command start", "command", cmd.CommandPath())

		if app != nil || bootstrap == nil || cmd.Annotations[AnnotationStandalone] == "true" {
			return nil
		}
		a, closeFn, err := bootstrap(ctx, cfgFile)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		SetApp(a)
		shutdown = closeFn
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.DebugContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command and releases the application afterwards.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if shutdown != nil {
		shutdown()
		shutdown = nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetBootstrap sets the function that wires the application on first use.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Verbose reports whether --verbose was given.
func Verbose() bool {
	return verbose
}
