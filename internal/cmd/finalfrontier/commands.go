package finalfrontier

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	platformcmd "github.com/louisbranch/finalfrontier/internal/platform/cmd"
	apperrors "github.com/louisbranch/finalfrontier/internal/platform/errors"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/ledger"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/pack"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/report"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/scenario"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/storage"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/storage/logfile"
	sqlitestore "github.com/louisbranch/finalfrontier/internal/services/halloffame/storage/sqlite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func (c *cli) catalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List every registered ribbon by descending prestige",
		Args:  cobra.NoArgs,
		RunE: c.runE(platformcmd.ServiceCatalog, func(_ context.Context, logger *zap.Logger) error {
			engine, err := c.engine(logger)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tPRESTIGE\tFIRST\tNAME")
			for _, r := range engine.Catalog().All() {
				d := r.Decoration()
				fmt.Fprintf(tw, "%s\t%d\t%t\t%s\n", r.Code(), d.Prestige(), d.MustBeFirst(), r.Name())
			}
			return tw.Flush()
		}),
	}
}

func (c *cli) replayCommand() *cobra.Command {
	var logPath, lang string
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild the hall of fame from a YAML award log",
		Args:  cobra.NoArgs,
		RunE: c.runE(platformcmd.ServiceReplay, func(ctx context.Context, logger *zap.Logger) error {
			if err := requireFlag("log", logPath); err != nil {
				return err
			}
			book, err := logfile.ReadFile(logPath, logger)
			if err != nil {
				return err
			}
			return c.replay(ctx, logger, book, lang)
		}),
	}
	cmd.Flags().StringVar(&logPath, "log", "", "YAML award log to replay")
	cmd.Flags().StringVar(&lang, "lang", "en-US", "report language")
	return cmd
}

func (c *cli) importCommand() *cobra.Command {
	var logPath, session string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a YAML award log in the sqlite store",
		Args:  cobra.NoArgs,
		RunE: c.runE(platformcmd.ServiceImport, func(ctx context.Context, logger *zap.Logger) error {
			if err := requireFlag("log", logPath); err != nil {
				return err
			}
			book, err := logfile.ReadFile(logPath, logger)
			if err != nil {
				return err
			}
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			id := session
			if id == "" {
				id = sqlitestore.NewSessionID()
			}
			if err := store.Save(ctx, id, book); err != nil {
				return err
			}
			logger.Info("award log imported", zap.String("session", id), zap.Int("records", len(book)))
			fmt.Fprintf(c.out, "imported %d records into session %s\n", len(book), id)
			return nil
		}),
	}
	cmd.Flags().StringVar(&logPath, "log", "", "YAML award log to import")
	cmd.Flags().StringVar(&session, "session", "", "session id to store the log under (default: a new id)")
	return cmd
}

func (c *cli) reportCommand() *cobra.Command {
	var session, lang string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the hall of fame stored in the sqlite store",
		Args:  cobra.NoArgs,
		RunE: c.runE(platformcmd.ServiceReport, func(ctx context.Context, logger *zap.Logger) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var book []ledger.LogbookEntry
			if session == "" {
				session, book, err = store.Load(ctx)
			} else {
				book, err = store.LoadSession(ctx, session)
			}
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.WithMetadata(apperrors.CodeSubjectNotFound, "no stored award log", map[string]string{"session": session})
			}
			if err != nil {
				return err
			}
			logger.Debug("award log loaded", zap.String("session", session), zap.Int("records", len(book)))
			return c.replay(ctx, logger, book, lang)
		}),
	}
	cmd.Flags().StringVar(&session, "session", "", "session to report (default: the latest)")
	cmd.Flags().StringVar(&lang, "lang", "en-US", "report language")
	return cmd
}

func (c *cli) simulateCommand() *cobra.Command {
	var (
		script  string
		logPath string
		save    bool
		assert  bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a Lua flight scenario against a fresh hall of fame",
		Args:  cobra.NoArgs,
		RunE: c.runE(platformcmd.ServiceSimulate, func(ctx context.Context, logger *zap.Logger) error {
			if err := requireFlag("script", script); err != nil {
				return err
			}
			engine, err := c.engine(logger)
			if err != nil {
				return err
			}
			mode := scenario.AssertionStrict
			if !assert {
				mode = scenario.AssertionLogOnly
			}
			runner, err := scenario.NewRunner(engine, scenario.Config{Assertions: mode, Logger: logger})
			if err != nil {
				return err
			}
			result, err := runner.RunFile(ctx, script)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "scenario %q: %d steps, %d records, %d failed expectations\n",
				result.Name, result.Steps, result.Records, result.Failures)

			if logPath != "" {
				if err := logfile.WriteFile(logPath, engine.Logbook()); err != nil {
					return err
				}
			}
			if !save {
				return nil
			}
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			id := sqlitestore.NewSessionID()
			if err := store.Save(ctx, id, engine.Logbook()); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "saved session %s\n", id)
			return nil
		}),
	}
	cmd.Flags().StringVar(&script, "script", "", "Lua scenario script")
	cmd.Flags().StringVar(&logPath, "log", "", "write the resulting award log to this YAML file")
	cmd.Flags().BoolVar(&save, "save", false, "store the resulting award log in the sqlite store")
	cmd.Flags().BoolVar(&assert, "assert", true, "stop on the first failed expectation (disable to only log them)")
	return cmd
}

func (c *cli) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the pack folder and register new ribbons as packs change",
		Args:  cobra.NoArgs,
		RunE: c.runE(platformcmd.ServiceWatch, func(ctx context.Context, logger *zap.Logger) error {
			if err := requireFlag("packs", c.cfg.PackDir); err != nil {
				return err
			}
			engine, err := c.engine(logger)
			if err != nil {
				return err
			}
			watcher, err := pack.NewWatcher(c.cfg.PackDir, logger)
			if err != nil {
				return fmt.Errorf("watch ribbon packs: %w", err)
			}
			fmt.Fprintf(c.out, "watching %s (%d ribbons)\n", c.cfg.PackDir, engine.Catalog().Len())

			changes := make(chan string)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				defer close(changes)
				return watcher.Run(gctx, changes)
			})
			g.Go(func() error {
				for file := range changes {
					added, err := engine.RescanPacks()
					if err != nil {
						logger.Error("ribbon pack rescan failed", zap.String("file", file), zap.Error(err))
						continue
					}
					logger.Info("ribbon pack changed",
						zap.String("file", file),
						zap.Int("added", added),
						zap.Int("ribbons", engine.Catalog().Len()))
				}
				return nil
			})
			return g.Wait()
		}),
	}
}

func (c *cli) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the sqlite store schema and list applied migrations",
		Args:  cobra.NoArgs,
		RunE: c.runE(platformcmd.ServiceMigrate, func(ctx context.Context, logger *zap.Logger) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			names, err := store.Migrations(ctx)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(c.out, name)
			}
			logger.Info("schema up to date", zap.String("db", c.cfg.DBPath), zap.Int("migrations", len(names)))
			return nil
		}),
	}
}

// replay loads book into a fresh engine at the time of its last record and
// renders the report.
func (c *cli) replay(ctx context.Context, logger *zap.Logger, book []ledger.LogbookEntry, lang string) error {
	engine, err := c.engine(logger)
	if err != nil {
		return err
	}
	var last float64
	for _, entry := range book {
		last = max(last, entry.Time)
	}
	engine.SetTime(last)
	stats := engine.Load(ctx, book)
	logger.Info("award log replayed",
		zap.Int("records", stats.Records),
		zap.Int("awards", stats.Awards),
		zap.Int("skipped", stats.Skipped))
	return report.Render(c.out, engine.Registry(), lang)
}
