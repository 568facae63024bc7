// Package finalfrontier implements the finalfrontier command tree.
package finalfrontier

import (
	"fmt"
	"io"

	platformcmd "github.com/louisbranch/finalfrontier/internal/platform/cmd"
	"github.com/louisbranch/finalfrontier/internal/platform/logging"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/app"
	"go.uber.org/zap"
)

// Config holds command configuration shared by every subcommand.
type Config struct {
	DBPath     string `env:"DB_PATH"     envDefault:"finalfrontier.sqlite"`
	BodiesFile string `env:"BODIES_FILE"`
	PackDir    string `env:"PACK_DIR"`
	AssetDir   string `env:"ASSET_DIR"`
	Logging    logging.Config
}

// ParseConfig loads FINALFRONTIER_* environment values. Flags override them.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) engineConfig() app.Config {
	return app.Config{
		BodiesFile: c.BodiesFile,
		PackDir:    c.PackDir,
		AssetDir:   c.AssetDir,
		AwardLevel: c.Logging.AwardLevel(),
	}
}

func (c Config) logger(w io.Writer) (*zap.Logger, error) {
	logger, err := logging.NewWriter(w, c.Logging)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
