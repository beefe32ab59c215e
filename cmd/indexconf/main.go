// Command indexconf edits a repository's precise code intelligence index
// configuration and previews batch change applies from the terminal.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iw2rmb/indexconf"
	"github.com/iw2rmb/indexconf/internal/config"
	"github.com/iw2rmb/indexconf/internal/graphql"
	"github.com/iw2rmb/indexconf/internal/indexconfig"
	"github.com/iw2rmb/indexconf/internal/telemetry"
	"github.com/iw2rmb/indexconf/internal/ui"
)

const requestTimeout = 30 * time.Second

// app holds what the persistent flags resolve to.
type app struct {
	cfgFile  string
	endpoint string
	verbose  bool
	logFile  string
	light    bool

	cfg    *config.Config
	logger *zap.Logger

	// programOptions are appended to every interactive program.
	programOptions []tea.ProgramOption
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "indexconf",
		Short: "Manage precise code intelligence index configuration",
		Long: `indexconf reads and writes the index configuration of a repository on a
code search instance.

The endpoint and access token come from the config file
($XDG_CONFIG_HOME/indexconf/config.yaml), then SRC_ENDPOINT and
SRC_ACCESS_TOKEN, then flags.`,
		SilenceUsage:      true,
		Version:           indexconf.Version(),
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default "+config.DefaultPath()+")")
	f.StringVar(&a.endpoint, "endpoint", "", "code search endpoint, overrides config and SRC_ENDPOINT")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	f.StringVar(&a.logFile, "log-file", "", "write JSON logs to this file")
	f.BoolVar(&a.light, "light", false, "use light theme styles")

	root.AddCommand(
		newEditCmd(a),
		newGetCmd(a),
		newSetCmd(a),
		newValidateCmd(a),
		newPreviewCmd(a),
		newScheduleCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.endpoint != "" {
		cfg.Endpoint = a.endpoint
	}
	if cmd.Flags().Changed("light") {
		cfg.LightTheme = &a.light
	}
	a.cfg = cfg

	// The terminal belongs to the UI, so logs only go to a file.
	if a.logFile == "" {
		a.logger = zap.NewNop()
		return nil
	}
	zc := zap.NewProductionConfig()
	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zc.OutputPaths = []string{a.logFile}
	zc.ErrorOutputPaths = []string{a.logFile}
	a.logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	a.logger.Debug("configuration loaded", zap.String("path", path), zap.String("endpoint", cfg.Endpoint))
	return nil
}

func (a *app) client() *graphql.Client {
	return &graphql.Client{
		Endpoint:   a.cfg.Endpoint,
		Token:      a.cfg.AccessToken,
		HTTPClient: &http.Client{Timeout: requestTimeout},
		Logger:     a.logger,
	}
}

func (a *app) store() indexconfig.Store {
	return indexconfig.NewGraphQLStore(a.client())
}

func (a *app) theme() ui.Theme {
	if a.cfg.LightTheme != nil {
		return ui.Theme{Light: *a.cfg.LightTheme}
	}
	return ui.Theme{Light: !termenv.HasDarkBackground()}
}

func (a *app) telemetry() telemetry.Service {
	return telemetry.ZapService{Logger: a.logger}
}

func (a *app) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}, a.programOptions...)
	return tea.NewProgram(m, opts...).Run()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
