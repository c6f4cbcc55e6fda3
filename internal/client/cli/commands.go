package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iudanet/shiftkeeper/internal/client/iocli"
	"github.com/iudanet/shiftkeeper/internal/client/session"
	"github.com/iudanet/shiftkeeper/internal/config"
)

// BuildInfo информация о сборке, задается через ldflags
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

type rootOptions struct {
	configPath   string
	serverURL    string
	dbPath       string
	logLevel     string
	passwordFile string
}

// App is the client command tree bound to a lazily opened session
type App struct {
	root    *cobra.Command
	session *session.Session
	cli     *Cli
	opts    rootOptions
}

// NewApp builds the shiftkeeper command tree
func NewApp(info BuildInfo) *App {
	a := &App{}

	a.root = &cobra.Command{
		Use:           "shiftkeeper",
		Short:         "Offline-first work shift manager",
		Version:       fmt.Sprintf("%s (built %s, commit %s)", info.Version, info.BuildDate, info.GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}

	flags := a.root.PersistentFlags()
	flags.StringVarP(&a.opts.configPath, "config", "c", "", "path to YAML config file")
	flags.StringVar(&a.opts.serverURL, "server", "", "server URL (overrides config)")
	flags.StringVar(&a.opts.dbPath, "db", "", "path to local database (overrides config)")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.opts.passwordFile, "password-file", "", "file containing the account password")

	a.root.AddCommand(
		a.command("register", "Register a new account and log in", cobra.NoArgs,
			func(ctx context.Context, args []string) error { return a.cli.runRegister(ctx) }),
		a.command("login", "Log in to the server", cobra.NoArgs,
			func(ctx context.Context, args []string) error { return a.cli.runLogin(ctx) }),
		a.command("logout", "Delete the local session", cobra.NoArgs,
			func(ctx context.Context, args []string) error { return a.cli.runLogout(ctx) }),
		a.command("status", "Show authentication and delivery status", cobra.NoArgs,
			func(ctx context.Context, args []string) error { return a.cli.runStatus(ctx) }),
		a.saveCommand(),
		a.command("delete <id>", "Delete a shift", cobra.ExactArgs(1),
			func(ctx context.Context, args []string) error { return a.cli.runDelete(ctx, args[0]) }),
		a.command("list", "List cached shifts", cobra.NoArgs,
			func(ctx context.Context, args []string) error { return a.cli.runList(ctx) }),
		a.command("get <date>", "Show the shift for a date", cobra.ExactArgs(1),
			func(ctx context.Context, args []string) error { return a.cli.runGet(ctx, args[0]) }),
		a.command("sync", "Synchronize with the server now", cobra.NoArgs,
			func(ctx context.Context, args []string) error { return a.cli.runSync(ctx) }),
		a.command("drain", "Deliver queued offline changes", cobra.NoArgs,
			func(ctx context.Context, args []string) error { return a.cli.runDrain(ctx) }),
		a.command("stats", "Show sync statistics", cobra.NoArgs,
			func(ctx context.Context, args []string) error { return a.cli.runStats(ctx) }),
		a.command("conflicts", "List conflicts that need a manual decision", cobra.NoArgs,
			func(ctx context.Context, args []string) error { return a.cli.runConflicts(ctx) }),
		a.command("resolve <record-id> <action>", "Resolve a conflict: keep_local, keep_remote, merge or duplicate", cobra.ExactArgs(2),
			func(ctx context.Context, args []string) error { return a.cli.runResolve(ctx, args[0], args[1]) }),
		a.deadLettersCommand(),
		a.command("watch", "Stay connected and print sync events", cobra.NoArgs,
			func(ctx context.Context, args []string) error { return a.cli.runWatch(ctx) }),
	)

	return a
}

// Execute runs the command line and closes the session afterwards
func (a *App) Execute(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	err := a.root.ExecuteContext(ctx)

	if a.session != nil {
		if cerr := a.session.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	return err
}

func (a *App) command(use, short string, args cobra.PositionalArgs, run func(ctx context.Context, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args)
		},
	}
}

func (a *App) saveCommand() *cobra.Command {
	var kind, notes string
	cmd := a.command("save <date>", "Create or update the shift for a date (YYYY-MM-DD)", cobra.ExactArgs(1),
		func(ctx context.Context, args []string) error { return a.cli.runSave(ctx, args[0], kind, notes) })
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "shift kind: A, B or C")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func (a *App) deadLettersCommand() *cobra.Command {
	var clear bool
	cmd := a.command("dead-letters", "List changes that failed permanently", cobra.NoArgs,
		func(ctx context.Context, args []string) error { return a.cli.runDeadLetters(ctx, clear) })
	cmd.Flags().BoolVar(&clear, "clear", false, "remove all dead letters")
	return cmd
}

// open загружает конфигурацию (файл -> env -> флаги) и открывает сессию
func (a *App) open(cmd *cobra.Command) error {
	cfg, err := config.LoadClientConfig(a.opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.opts.serverURL != "" {
		cfg.ServerURL = a.opts.serverURL
	}
	if a.opts.dbPath != "" {
		cfg.DBPath = a.opts.dbPath
	}
	if a.opts.logLevel != "" {
		cfg.LogLevel = a.opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	a.session, err = session.Open(cmd.Context(), *cfg, logger)
	if err != nil {
		return err
	}

	a.cli = New(Deps{
		IO:        iocli.NewStdio(),
		Auth:      a.session.Auth,
		Shifts:    a.session.Shifts,
		Sync:      a.session.Sync,
		Queue:     a.session.Queue,
		Runner:    a.session,
		Bus:       a.session.Bus,
		Passwords: Passwords{FromFile: a.opts.passwordFile},
	})
	return nil
}
