package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/studiowebux/shopdemo/internal/analytics"
	"github.com/studiowebux/shopdemo/internal/cli"
	"github.com/studiowebux/shopdemo/internal/config"
	"github.com/studiowebux/shopdemo/internal/filter"
	"github.com/studiowebux/shopdemo/internal/gateway"
	"github.com/studiowebux/shopdemo/internal/keybinds"
	"github.com/studiowebux/shopdemo/internal/logging"
	"github.com/studiowebux/shopdemo/internal/mock"
	"github.com/studiowebux/shopdemo/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shopdemo",
	Short: "Product catalog and people directory demo",
	Long: `shopdemo browses a product catalog with a cart and a filterable people directory,
backed by a built-in sample or a remote JSON origin.

Run without arguments to start the interactive view.

Examples:
  shopdemo                                   # Start interactive view
  shopdemo products --source remote          # List remote products
  shopdemo products --cart 1,3 -o json       # Cart total as JSON
  shopdemo users --search maria              # Filter the sample directory
  shopdemo users --source remote -q 'visible[].email'
  shopdemo queries save cart 'products[?inCart].title'
  shopdemo mock --port 9090                  # Serve fixtures offline
  SHOPDEMO_BASE_URL=http://localhost:9090 shopdemo`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products with cart membership and total",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, opts cli.Options, s config.Settings) error {
			return cli.RunProducts(ctx, opts, cli.ProductsOptions{
				Source: flagSource,
				Cart:   flagCart,
				Pick:   flagPick,
			}, s.ProductPageSize)
		})
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List people matching the search term and gender filter",
	Long: `List people matching the search term and gender filter.

--add and --remove edit the local sample only; the remote source is read-only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, opts cli.Options, s config.Settings) error {
			return cli.RunUsers(ctx, opts, cli.UsersOptions{
				Source: flagSource,
				Search: flagSearch,
				Gender: flagGender,
				Add:    flagAdd,
				Remove: flagRemove,
			}, s.UserPageSize)
		})
	},
}

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "Fetch one page of tasks from the remote origin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, opts cli.Options, s config.Settings) error {
			limit := flagLimit
			if !cmd.Flags().Changed("limit") {
				limit = s.TodoPageSize
			}
			return cli.RunTodos(ctx, opts, limit, flagSkip)
		})
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test connectivity to the remote origin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, opts cli.Options, s config.Settings) error {
			return cli.RunProbe(ctx, opts)
		})
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch products, users and todos concurrently",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, opts cli.Options, s config.Settings) error {
			return cli.RunSnapshot(ctx, opts, cli.PageSizes{
				Products: s.ProductPageSize,
				Users:    s.UserPageSize,
				Todos:    s.TodoPageSize,
			})
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the gateway call log summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}

		// Reading the log works even when recording is off
		mgr, err := analytics.NewManager(config.DatabasePath, logger)
		if err != nil {
			return err
		}
		defer mgr.Close()

		return cli.RunStats(cliOptions(settings, logger, nil), mgr, flagClear)
	},
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve the fixture origin locally",
	Long: `Serve embedded products, users and todos over HTTP with the same contract as the
remote origin. Point the demo at it with --base-url or SHOPDEMO_BASE_URL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}

		cfg := mock.DefaultConfig()
		if flagMockConfig != "" {
			if cfg, err = mock.LoadConfig(flagMockConfig); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = flagPort
		}
		if cmd.Flags().Changed("host") {
			cfg.Host = flagHost
		}
		if cmd.Flags().Changed("delay") {
			cfg.Delay = flagDelay
		}
		if cmd.Flags().Changed("fail-probe") {
			cfg.FailProbe = flagFailProbe
		}

		return cli.RunMock(cmd.Context(), cliOptions(settings, logger, nil), cfg)
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Show, validate or export the interactive key map",
	Long: `Show the effective key map of the interactive view: the defaults plus the
overrides in ~/.shopdemo/keybinds.json. --export writes the defaults there.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.ValidateFormat(flagOutput); err != nil {
			return err
		}
		settings, logger, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		path := filepath.Join(config.ConfigDir, keybinds.FileName)
		return cli.RunKeybinds(cliOptions(settings, logger, nil), path, flagExport)
	},
}

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "List saved --query expressions",
	Long: `List saved JMESPath expressions. Any command accepts --query @name to use one.

Examples:
  shopdemo queries save cart 'products[?inCart].title'
  shopdemo products --cart 1,2 --query @cart
  shopdemo queries delete cart`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withQueries(cmd, func(opts cli.Options, store *filter.SavedStore) error {
			return cli.RunQueries(opts, store, flagSearch)
		})
	},
}

var querySaveCmd = &cobra.Command{
	Use:   "save <name> <expression>",
	Short: "Save a JMESPath expression under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withQueries(cmd, func(opts cli.Options, store *filter.SavedStore) error {
			return cli.RunSaveQuery(opts, store, args[0], args[1])
		})
	},
}

var queryDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withQueries(cmd, func(opts cli.Options, store *filter.SavedStore) error {
			return cli.RunDeleteQuery(opts, store, args[0])
		})
	},
}

// Global flags
var (
	flagSettings string
	flagBaseURL  string
	flagTimeout  time.Duration
	flagOutput   string
	flagQuery    string
	flagLogLevel string
)

// Flags for products/users
var (
	flagSource string
	flagCart   []int
	flagPick   bool
	flagSearch string
	flagGender string
	flagAdd    string
	flagRemove int
)

// Flags for todos
var (
	flagLimit int
	flagSkip  int
)

// Flags for stats and keybinds
var (
	flagClear  bool
	flagExport bool
)

// Flags for mock
var (
	flagMockConfig string
	flagHost       string
	flagPort       int
	flagDelay      int
	flagFailProbe  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "Settings file (.yaml or .jsonc)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Remote origin base URL")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout (e.g. 5s)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output format (text/json/yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagQuery, "query", "q", "", "JMESPath expression applied to json/yaml output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")

	productsCmd.Flags().StringVar(&flagSource, "source", "local", "Data source (local/remote)")
	productsCmd.Flags().IntSliceVar(&flagCart, "cart", nil, "Product ids to toggle into the cart")
	productsCmd.Flags().BoolVar(&flagPick, "pick", false, "Choose cart contents interactively")

	usersCmd.Flags().StringVar(&flagSource, "source", "local", "Data source (local/remote)")
	usersCmd.Flags().StringVar(&flagSearch, "search", "", "Case-insensitive match on name or email")
	usersCmd.Flags().StringVar(&flagGender, "gender", "all", "Gender filter (all/male/female)")
	usersCmd.Flags().StringVar(&flagAdd, "add", "", "Add a user to the local sample (first,last,email)")
	usersCmd.Flags().IntVar(&flagRemove, "remove", 0, "Remove a user from the local sample by id")

	todosCmd.Flags().IntVar(&flagLimit, "limit", config.DefaultTodoPageSize, "Page size")
	todosCmd.Flags().IntVar(&flagSkip, "skip", 0, "Items to skip")

	statsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded calls")

	keybindsCmd.Flags().BoolVar(&flagExport, "export", false, "Write the default key map to the config directory")

	queriesCmd.Flags().StringVar(&flagSearch, "search", "", "Only names or expressions containing this text")
	queriesCmd.AddCommand(querySaveCmd)
	queriesCmd.AddCommand(queryDeleteCmd)

	mockCmd.Flags().StringVar(&flagMockConfig, "config", "", "Fixture origin config file (.yaml or .json)")
	mockCmd.Flags().StringVar(&flagHost, "host", "localhost", "Listen host")
	mockCmd.Flags().IntVar(&flagPort, "port", 8080, "Listen port")
	mockCmd.Flags().IntVar(&flagDelay, "delay", 0, "Artificial response delay in milliseconds")
	mockCmd.Flags().BoolVar(&flagFailProbe, "fail-probe", false, "Answer /test with 503")

	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(todosCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(keybindsCmd)
	rootCmd.AddCommand(queriesCmd)
}

// setup initializes the config directory, loads settings with flag overrides and
// builds a logger writing to w
func setup(cmd *cobra.Command, w io.Writer) (config.Settings, *slog.Logger, error) {
	if err := config.Initialize(); err != nil {
		return config.Settings{}, nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return settings, nil, err
	}

	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return settings, nil, err
	}

	if strings.HasPrefix(flagQuery, filter.SavedPrefix) {
		if flagQuery, err = resolveQuery(flagQuery); err != nil {
			return settings, nil, err
		}
	}

	return settings, logging.New(level, w), nil
}

// resolveQuery expands --query @name from the saved expressions
func resolveQuery(query string) (string, error) {
	store, err := filter.OpenSaved(config.DatabasePath)
	if err != nil {
		return "", err
	}
	defer store.Close()

	return store.Resolve(query)
}

// withQueries runs fn with the saved expression store
func withQueries(cmd *cobra.Command, fn func(opts cli.Options, store *filter.SavedStore) error) error {
	if err := cli.ValidateFormat(flagOutput); err != nil {
		return err
	}
	settings, logger, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}

	store, err := filter.OpenSaved(config.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(cliOptions(settings, logger, nil), store)
}

func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path := flagSettings
	if path == "" {
		path = config.ResolveSettingsPath()
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		return settings, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		settings.BaseURL = strings.TrimRight(flagBaseURL, "/")
		if !strings.HasPrefix(settings.BaseURL, "http://") && !strings.HasPrefix(settings.BaseURL, "https://") {
			return settings, fmt.Errorf("invalid --base-url %q: must start with http:// or https://", flagBaseURL)
		}
	}
	if flags.Changed("timeout") {
		if flagTimeout <= 0 {
			return settings, fmt.Errorf("invalid --timeout %v: must be positive", flagTimeout)
		}
		settings.Timeout = config.Duration(flagTimeout)
	}
	if flags.Changed("log-level") {
		settings.LogLevel = flagLogLevel
	}

	return settings, nil
}

func cliOptions(s config.Settings, logger *slog.Logger, recorder gateway.Recorder) cli.Options {
	return cli.Options{
		BaseURL:      s.BaseURL,
		Timeout:      s.RequestTimeout(),
		OutputFormat: flagOutput,
		Query:        flagQuery,
		Out:          os.Stdout,
		Logger:       logger,
		Recorder:     recorder,
	}
}

// withSession runs fn with the settings, a stderr logger and, when enabled, the call log
func withSession(cmd *cobra.Command, fn func(ctx context.Context, opts cli.Options, s config.Settings) error) error {
	if err := cli.ValidateFormat(flagOutput); err != nil {
		return err
	}

	settings, logger, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}

	var recorder gateway.Recorder
	if settings.Analytics {
		mgr, err := analytics.NewManager(config.DatabasePath, logger)
		if err != nil {
			return err
		}
		defer mgr.Close()
		recorder = mgr
	}

	return fn(cmd.Context(), cliOptions(settings, logger, recorder), settings)
}

func runTUI(cmd *cobra.Command) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so diagnostics go to a file
	logger, closer, err := logging.OpenFile(level, config.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	registry, err := keybinds.LoadOrDefault(filepath.Join(config.ConfigDir, keybinds.FileName))
	if err != nil {
		return fmt.Errorf("failed to load keybinds: %w", err)
	}

	gwOpts := []gateway.Option{gateway.WithLogger(logger)}

	var mgr *analytics.Manager
	if settings.Analytics {
		mgr, err = analytics.NewManager(config.DatabasePath, logger)
		if err != nil {
			return err
		}
		defer mgr.Close()
		gwOpts = append(gwOpts, gateway.WithRecorder(mgr))
	}

	logger.Info("starting interactive view", "baseURL", settings.BaseURL, "analytics", settings.Analytics)

	return tui.Run(tui.Options{
		Gateway:   gateway.New(settings.BaseURL, settings.RequestTimeout(), gwOpts...),
		Settings:  settings,
		Logger:    logger,
		Keybinds:  registry,
		Analytics: mgr,
	})
}
