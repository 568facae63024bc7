// Package api is the query and command surface other mods use to register
// ribbons of their own and award them.
package api

import (
	"strconv"

	apperrors "github.com/louisbranch/finalfrontier/internal/platform/errors"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/ledger"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/rules"
	"go.uber.org/zap"
)

// Version is the engine version reported to API clients. Release builds
// override it with -ldflags "-X".
var Version = "1.10.0-dev"

// API exposes the catalog and registry of one engine.
type API struct {
	catalog  *decoration.Catalog
	registry *ledger.Registry
	logger   *zap.Logger
}

// New returns the API over registry.
func New(registry *ledger.Registry, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{catalog: registry.Catalog(), registry: registry, logger: logger}
}

// Version returns the engine version.
func (a *API) Version() string { return Version }

// Ribbon returns the ribbon registered under code.
func (a *API) Ribbon(code string) (*decoration.Ribbon, error) {
	r, ok := a.catalog.Lookup(code)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeUnknownCode, "no ribbon for code", map[string]string{"code": code})
	}
	return r, nil
}

// RegisterRibbon adds an externally defined ribbon without checks.
func (a *API) RegisterRibbon(code, asset, name, description string, first bool, prestige int) (*decoration.Ribbon, error) {
	a.logger.Info("adding external ribbon", zap.String("ribbon", name), zap.String("code", code))
	r := decoration.NewRibbon(asset, decoration.NewExternal(code, name, description, prestige, first), nil)
	if err := a.catalog.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// RegisterCustomRibbon adds a custom ribbon. Ids up to CustomRibbonBase are
// reserved for built-in ribbons.
func (a *API) RegisterCustomRibbon(id int, asset, name, description string, prestige int) (*decoration.Ribbon, error) {
	a.logger.Info("adding external custom ribbon", zap.String("ribbon", name), zap.Int("id", id))
	if id <= rules.CustomRibbonBase {
		a.logger.Error("illegal custom ribbon id", zap.Int("id", id), zap.Int("min", rules.CustomRibbonBase+1))
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidID, "custom ribbon id has to be greater than "+strconv.Itoa(rules.CustomRibbonBase),
			map[string]string{"id": strconv.Itoa(id)})
	}
	c := decoration.NewCustom(id, prestige)
	c.SetName(name)
	c.SetDescription(description)
	r := decoration.NewRibbon(asset, c, nil)
	if err := a.catalog.RegisterCustom(id, r); err != nil {
		return nil, err
	}
	return r, nil
}

// AwardRibbon awards ribbon to subject.
func (a *API) AwardRibbon(ribbon *decoration.Ribbon, subject string) bool {
	if ribbon == nil || subject == "" {
		return false
	}
	a.logger.Debug("awarding external ribbon", zap.String("ribbon", ribbon.Name()), zap.String("subject", subject))
	return a.registry.Award(subject, ribbon)
}

// AwardRibbonCode awards the ribbon registered under code to subject.
func (a *API) AwardRibbonCode(code, subject string) (bool, error) {
	r, err := a.Ribbon(code)
	if err != nil {
		a.logger.Error("no ribbon for code", zap.String("code", code))
		return false, err
	}
	return a.AwardRibbon(r, subject), nil
}

// AwardRibbonToAll awards ribbon to every subject in one transaction and
// returns the number of new awards.
func (a *API) AwardRibbonToAll(ribbon *decoration.Ribbon, subjects []string) int {
	if ribbon == nil {
		return 0
	}
	a.registry.BeginTransaction()
	defer a.registry.EndTransaction()
	n := 0
	for _, s := range subjects {
		if a.registry.Award(s, ribbon) {
			n++
		}
	}
	return n
}

// AwardRibbonCodeToAll is AwardRibbonToAll by code.
func (a *API) AwardRibbonCodeToAll(code string, subjects []string) (int, error) {
	r, err := a.Ribbon(code)
	if err != nil {
		a.logger.Error("no ribbon for code", zap.String("code", code))
		return 0, err
	}
	return a.AwardRibbonToAll(r, subjects), nil
}

// RevokeRibbon takes ribbon from subject. Ribbons it superseded come back
// but are not revoked.
func (a *API) RevokeRibbon(ribbon *decoration.Ribbon, subject string) bool {
	if ribbon == nil || subject == "" {
		return false
	}
	a.logger.Debug("revoking external ribbon", zap.String("ribbon", ribbon.Name()), zap.String("subject", subject))
	return a.registry.Revoke(subject, ribbon, false)
}

// RevokeRibbonCode revokes by code.
func (a *API) RevokeRibbonCode(code, subject string) (bool, error) {
	r, err := a.Ribbon(code)
	if err != nil {
		a.logger.Error("no ribbon for code", zap.String("code", code))
		return false, err
	}
	return a.RevokeRibbon(r, subject), nil
}

// IsRibbonAwarded reports whether subject holds ribbon.
func (a *API) IsRibbonAwarded(ribbon *decoration.Ribbon, subject string) bool {
	if ribbon == nil {
		return false
	}
	e, ok := a.registry.Entry(subject)
	return ok && e.HasRibbon(ribbon)
}

// IsRibbonCodeAwarded reports by code; unknown codes are never awarded.
func (a *API) IsRibbonCodeAwarded(code, subject string) bool {
	r, ok := a.catalog.Lookup(code)
	return ok && a.IsRibbonAwarded(r, subject)
}

func (a *API) entry(subject string) (*ledger.Entry, bool) {
	return a.registry.Entry(subject)
}

// MissionsFlown returns the number of completed missions, 0 for unknown
// subjects. The other counter accessors follow the same rule.
func (a *API) MissionsFlown(subject string) int {
	if e, ok := a.entry(subject); ok {
		return e.MissionsFlown
	}
	return 0
}

func (a *API) Dockings(subject string) int {
	if e, ok := a.entry(subject); ok {
		return e.Dockings
	}
	return 0
}

func (a *API) ContractsCompleted(subject string) int {
	if e, ok := a.entry(subject); ok {
		return e.ContractsCompleted
	}
	return 0
}

func (a *API) Research(subject string) float64 {
	if e, ok := a.entry(subject); ok {
		return e.Research
	}
	return 0
}

func (a *API) TotalMissionTime(subject string) float64 {
	if e, ok := a.entry(subject); ok {
		return e.TotalMissionTime
	}
	return 0
}
