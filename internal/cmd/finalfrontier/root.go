package finalfrontier

import (
	"context"
	"io"

	platformcmd "github.com/louisbranch/finalfrontier/internal/platform/cmd"
	apperrors "github.com/louisbranch/finalfrontier/internal/platform/errors"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/app"
	sqlitestore "github.com/louisbranch/finalfrontier/internal/services/halloffame/storage/sqlite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type cli struct {
	cfg    Config
	out    io.Writer
	errOut io.Writer
}

// NewRootCommand builds the command tree. Flags start from cfg and override
// it.
func NewRootCommand(cfg Config, out, errOut io.Writer) *cobra.Command {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	c := &cli{cfg: cfg, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "finalfrontier",
		Short:         "Hall of fame and ribbon awards for kerbal crews",
		Long:          "finalfrontier replays award logs, runs flight scenarios and reports the ribbons every crew member earned.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfg.DBPath, "db", cfg.DBPath, "path to the sqlite logbook store")
	flags.StringVar(&c.cfg.BodiesFile, "bodies", cfg.BodiesFile, "TOML body system replacing the stock system")
	flags.StringVar(&c.cfg.PackDir, "packs", cfg.PackDir, "folder scanned for custom ribbon packs")
	flags.StringVar(&c.cfg.AssetDir, "assets", cfg.AssetDir, "folder ribbon textures are resolved in")
	flags.StringVar(&c.cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level (debug, info, warn, error)")
	flags.BoolVar(&c.cfg.Logging.Awards, "log-awards", cfg.Logging.Awards, "log every ribbon award at info")

	root.AddCommand(
		c.catalogCommand(),
		c.replayCommand(),
		c.importCommand(),
		c.reportCommand(),
		c.simulateCommand(),
		c.watchCommand(),
		c.migrateCommand(),
	)
	return root
}

// runE wraps fn in the service telemetry span with a logger writing to the
// error stream.
func (c *cli) runE(service string, fn func(context.Context, *zap.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logger, err := c.cfg.logger(c.errOut)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeConfigInvalid, "invalid logging configuration", err)
		}
		defer func() { _ = logger.Sync() }()
		return platformcmd.RunWithTelemetry(cmd.Context(), service, func(ctx context.Context) error {
			return fn(ctx, logger)
		})
	}
}

func (c *cli) engine(logger *zap.Logger) (*app.Engine, error) {
	return app.New(c.cfg.engineConfig(), logger)
}

func (c *cli) openStore() (*sqlitestore.Store, error) {
	if c.cfg.DBPath == "" {
		return nil, apperrors.New(apperrors.CodeStorageUnconfigured, "database path is required")
	}
	return sqlitestore.Open(c.cfg.DBPath)
}

func requireFlag(name, value string) error {
	if value == "" {
		return apperrors.WithMetadata(apperrors.CodeConfigInvalid, "--"+name+" is required", map[string]string{"flag": name})
	}
	return nil
}
