// Package app composes the hall of fame engine: the ribbon catalog, the award
// registry, the evaluation driver and the external API over one body system.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/api"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/bodies"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/driver"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/ledger"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/rules"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/pack"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TracerName names the tracer engine spans are recorded on.
const TracerName = "github.com/louisbranch/finalfrontier/internal/services/halloffame"

// Config selects the body system and the ribbon sources of an engine.
type Config struct {
	// BodiesFile replaces the stock body system when set.
	BodiesFile string
	// PackDir is scanned for custom ribbon packs when set.
	PackDir string
	// AssetDir disables ribbons without a texture when set.
	AssetDir string
	// AwardLevel is the level award messages are logged at.
	AwardLevel zapcore.Level
	// Clock feeds calendar ribbons. Nil means the wall clock.
	Clock rules.Clock
}

// Engine owns one catalog and registry. The game clock it hands the registry
// is set by the caller, since game time only advances when the host says so.
type Engine struct {
	cfg      Config
	logger   *zap.Logger
	system   *bodies.System
	catalog  *decoration.Catalog
	registry *ledger.Registry
	api      *api.API

	mu     sync.Mutex
	now    float64
	driver *driver.Driver
}

// New builds the catalog for cfg and an empty registry. Catalog registration
// problems are logged and do not fail construction; a body system that cannot
// be loaded does.
func New(cfg Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	system := bodies.Stock()
	if strings.TrimSpace(cfg.BodiesFile) != "" {
		loaded, err := bodies.LoadFile(cfg.BodiesFile)
		if err != nil {
			return nil, fmt.Errorf("load bodies file: %w", err)
		}
		system = loaded
	}

	catalog, err := rules.NewStandardCatalog(system, rules.Options{
		AssetExists: assetExists(cfg.AssetDir),
		Clock:       cfg.Clock,
		Logger:      logger,
	})
	if err != nil {
		logger.Warn("standard catalog built with errors", zap.Error(err))
	}

	e := &Engine{cfg: cfg, logger: logger, system: system, catalog: catalog}
	e.registry = ledger.NewRegistry(catalog,
		ledger.WithLogger(logger),
		ledger.WithGameClock(e.Time),
		ledger.WithAwardLevel(cfg.AwardLevel))
	e.driver = driver.New(e.registry, nil, logger)
	e.api = api.New(e.registry, logger)

	if cfg.PackDir != "" {
		if _, err := e.RescanPacks(); err != nil {
			logger.Error("ribbon pack scan failed", zap.String("dir", cfg.PackDir), zap.Error(err))
		}
	}
	return e, nil
}

// assetExists resolves ribbon textures below dir. An empty dir accepts every
// asset.
func assetExists(dir string) func(string) bool {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	return func(asset string) bool {
		path := filepath.Join(dir, filepath.FromSlash(asset))
		if filepath.Ext(path) == "" {
			path += ".png"
		}
		_, err := os.Stat(path)
		return err == nil
	}
}

func (e *Engine) System() *bodies.System         { return e.system }
func (e *Engine) Catalog() *decoration.Catalog   { return e.catalog }
func (e *Engine) Registry() *ledger.Registry     { return e.registry }
func (e *Engine) API() *api.API                  { return e.api }
func (e *Engine) Logbook() []ledger.LogbookEntry { return e.registry.Logbook() }

// Driver returns the current evaluation driver. Clear replaces it.
func (e *Engine) Driver() *driver.Driver {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.driver
}

// Time returns the current game time.
func (e *Engine) Time() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

// SetTime moves the game clock to t.
func (e *Engine) SetTime(t float64) {
	e.mu.Lock()
	e.now = t
	e.mu.Unlock()
}

// Load rebuilds the registry from book and reverts observer state recorded
// after the current game time.
func (e *Engine) Load(ctx context.Context, book []ledger.LogbookEntry) ledger.ReplayStats {
	_, span := otel.Tracer(TracerName).Start(ctx, "halloffame.replay")
	defer span.End()

	stats := e.registry.Rebuild(book)
	e.Driver().GameStateCreated(e.Time())
	span.SetAttributes(
		attribute.Int("records", stats.Records),
		attribute.Int("awards", stats.Awards),
		attribute.Int("skipped", stats.Skipped))
	return stats
}

// Clear drops every subject and record and starts over with fresh
// observers, as when the player leaves a save.
func (e *Engine) Clear() {
	e.registry.Clear()
	e.mu.Lock()
	e.driver = driver.New(e.registry, nil, e.logger)
	e.mu.Unlock()
	e.logger.Info("hall of fame cleared")
}

// RescanPacks scans the pack dir and registers ribbons not in the catalog
// yet. Ribbons already registered are reported as duplicates and kept.
func (e *Engine) RescanPacks() (int, error) {
	if strings.TrimSpace(e.cfg.PackDir) == "" {
		return 0, nil
	}
	packs, err := pack.Scan(os.DirFS(e.cfg.PackDir), ".", e.logger)
	if err != nil {
		return 0, fmt.Errorf("scan ribbon packs: %w", err)
	}
	var exists func(string) bool
	if e.cfg.AssetDir != "" {
		exists = assetExists(e.cfg.PackDir)
	}
	added := pack.Register(e.catalog, packs, exists, e.logger)
	e.logger.Info("ribbon packs scanned", zap.Int("packs", len(packs)), zap.Int("added", added))
	return added, nil
}
