package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandeepkv93/todonest/internal/config"
	"github.com/sandeepkv93/todonest/internal/logging"
	"github.com/sandeepkv93/todonest/internal/storage"
	"github.com/sandeepkv93/todonest/internal/store"
	"github.com/sandeepkv93/todonest/internal/update"
)

func main() {
	cobra.OnInitialize(initConfig)
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "todonest",
		Short: "Categories of tasks in the terminal",
		Long: `todonest keeps a list of categories, each holding its own tasks.
Run without a subcommand to open the terminal UI. Every change is saved
right away to the configured backend (sqlite, redis, file or memory).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}
	addPersistentFlags(root)
	root.AddCommand(listCmd())
	root.AddCommand(categoryCmd())
	root.AddCommand(taskCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(resetCmd())
	return root
}

func initConfig() {
	viper.SetEnvPrefix("TODONEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringP("config", "c", config.DefaultFileName, "config file (TOML)")
	flags.String("backend", "", "storage backend: sqlite, redis, file or memory")
	flags.String("sqlite-path", "", "sqlite database path")
	flags.String("file-path", "", "json file path for the file backend")
	flags.String("redis-addr", "", "redis address")
	flags.String("key", "", "key the list is stored under")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Bool("json", false, "output JSON")
	for _, name := range []string{"config", "backend", "sqlite-path", "file-path", "redis-addr", "key", "log-level", "json"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

// loadConfig layers flag and env values bound through viper over the TOML
// file and defaults.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return config.Config{}, err
	}
	overrides := []struct {
		name string
		dst  *string
	}{
		{"backend", &cfg.Storage.Backend},
		{"sqlite-path", &cfg.Storage.SQLitePath},
		{"file-path", &cfg.Storage.FilePath},
		{"redis-addr", &cfg.Storage.RedisAddr},
		{"key", &cfg.Storage.Key},
		{"log-level", &cfg.Logging.Level},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(viper.GetString(o.name)); v != "" {
			*o.dst = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) (*store.Store, func(), error) {
	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	st := store.New(backend, store.WithKey(cfg.Storage.Key), store.WithLogger(logger))
	if err := st.Load(ctx); err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	logger.Debug("store loaded", "backend", cfg.Storage.Backend, "categories", st.Len())
	return st, func() { _ = backend.Close() }, nil
}

// withStore runs fn against a loaded store. CLI commands log to stderr.
func withStore(ctx context.Context, fn func(context.Context, *store.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewWriter(os.Stderr, cfg.Logging)
	st, closeFn, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, st)
}

func runTUI(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	st, closeFn, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	program := tea.NewProgram(
		update.NewModel(st, update.WithContext(ctx), update.WithLogger(logger)),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("todonest failed: %w", err)
	}
	return nil
}
