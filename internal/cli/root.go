// Package cli provides the command-line interface for pkgview.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rescale/pkgview/internal/config"
	"github.com/rescale/pkgview/internal/events"
	"github.com/rescale/pkgview/internal/logging"
	"github.com/rescale/pkgview/internal/pathutil"
	"github.com/rescale/pkgview/internal/terminal"
	"github.com/rescale/pkgview/internal/version"
)

var (
	// Global flags
	cfgFile       string
	colorMode     string
	noProgressBar bool
	noConfirm     bool
	printOnly     bool
	downloadOnly  bool
	askMask       uint32
	debug         bool
	logFile       string
	totalDownload bool
	iLoveCandy    bool
	parallel      int

	// Effective options, loaded before any subcommand runs
	options *config.Options

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pkgview",
		Short: "Terminal progress rendering for package transactions",
		Long: `pkgview ` + version.Version + ` - Built: ` + version.BuildTime + `
Renders the notifications of a package transaction (events, questions,
download and install progress, log lines) the way a package manager's
terminal front end does.

Options are read from the [options] section of a pacman.conf-style file
and can be overridden with flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			options = cfg

			logPath := config.ResolveLogFile(cfg.LogFile)
			if logPath != "" {
				if logPath, err = pathutil.ResolveAbsolutePath(logPath); err != nil {
					return fmt.Errorf("invalid log file: %w", err)
				}
			}
			logger = logging.NewLogger(os.Stderr, logPath)
			if cfg.Debug {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
			logger.Debug().Str("config", cfg.Path).Int("parallel", cfg.ParallelDownloads).Msg("options loaded")
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Close()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default "+config.DefaultConfigPath()+")")
	flags.StringVar(&colorMode, "color", string(terminal.ColorAuto), "Colorize output: auto, always or never")
	flags.BoolVar(&noProgressBar, "noprogressbar", false, "Do not show progress bars")
	flags.BoolVar(&noConfirm, "noconfirm", false, "Answer every question with its default")
	flags.BoolVarP(&printOnly, "print", "p", false, "Print mode: no event output, questions answered automatically")
	flags.BoolVarP(&downloadOnly, "downloadonly", "w", false, "Download only: install ignored packages without asking")
	flags.Uint32Var(&askMask, "ask", 0, "Invert the answers of the question types in this bit mask")
	flags.BoolVar(&debug, "debug", false, "Show debug messages")
	flags.StringVar(&logFile, "logfile", "", "Write a log file (\""+config.AutoLogFile+"\" for the per-user location)")
	flags.BoolVar(&totalDownload, "totaldownload", false, "Show the percentage of the whole download batch")
	flags.BoolVar(&iLoveCandy, "ilovecandy", false, "Draw progress bars with the chomp theme")
	flags.IntVar(&parallel, "parallel", 0, "Concurrent downloads (0 = ParallelDownloads from the config file)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// loadOptions reads the config file and applies the flags given on the
// command line on top of it.
func loadOptions(cmd *cobra.Command) (*config.Options, error) {
	path, err := pathutil.ExpandHome(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	cfg.ColorMode = terminal.ColorMode(colorMode)
	cfg.NoProgressBar = cfg.NoProgressBar || noProgressBar
	cfg.TotalDownload = cfg.TotalDownload || totalDownload
	cfg.ILoveCandy = cfg.ILoveCandy || iLoveCandy
	if flags.Changed("logfile") {
		cfg.LogFile = logFile
	}
	if flags.Changed("parallel") && parallel > 0 {
		cfg.ParallelDownloads = parallel
	}

	cfg.NoConfirm = noConfirm
	cfg.Print = printOnly
	cfg.DownloadOnly = downloadOnly
	cfg.Debug = debug
	if flags.Changed("ask") {
		cfg.NoAsk = true
		cfg.Ask = events.QuestionType(askMask)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Execute runs the CLI.
func Execute() error {
	// Create a context that can be cancelled by signals
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Loop to handle repeated signals (Ctrl+C pressed more than once)
	go func() {
		for sig := range sigChan {
			// sig is nil once the channel is closed
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\ninterrupt signal received (%v)\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.ExecuteContext(rootContext)

	// Clean up signal handler
	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// This context will be cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		// Fallback to background context if called before Execute()
		return context.Background()
	}
	return rootContext
}

// GetOptions returns the effective options, or defaults before the root
// command has run.
func GetOptions() *config.Options {
	if options == nil {
		return config.NewOptions()
	}
	return options
}
