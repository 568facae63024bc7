package decoration

import (
	"slices"
	"sort"
	"sync"

	apperrors "github.com/louisbranch/finalfrontier/internal/platform/errors"
	"go.uber.org/zap"
)

// Catalog is the flat set of registered ribbons keyed by code.
type Catalog struct {
	mu      sync.RWMutex
	byCode  map[string]*Ribbon
	ordered []*Ribbon
	custom  map[int]*Ribbon
	logger  *zap.Logger
}

// NewCatalog returns an empty catalog.
func NewCatalog(logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		byCode: make(map[string]*Ribbon),
		custom: make(map[int]*Ribbon),
		logger: logger,
	}
}

// Register adds r. A disabled ribbon is skipped with a warning. A duplicate
// code or a supersede link to an unknown or cyclic chain is rejected.
func (c *Catalog) Register(r *Ribbon) error {
	if r == nil || r.decoration == nil {
		return apperrors.New(apperrors.CodeInternal, "ribbon is required")
	}
	if !r.Enabled() {
		c.logger.Warn("ribbon disabled", zap.String("ribbon", r.Name()), zap.String("code", r.Code()))
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registerLocked(r)
}

func (c *Catalog) registerLocked(r *Ribbon) error {
	code := r.Code()
	if _, dup := c.byCode[code]; dup {
		return apperrors.WithMetadata(apperrors.CodeDuplicateCode, "duplicate decoration code "+code, map[string]string{"code": code})
	}
	if err := c.validateChain(r); err != nil {
		return err
	}
	c.byCode[code] = r
	i := sort.Search(len(c.ordered), func(i int) bool {
		return CompareRibbons(c.ordered[i], r) > 0
	})
	c.ordered = slices.Insert(c.ordered, i, r)
	return nil
}

// validateChain checks that every supersede target was registered (or is a
// disabled ribbon kept only as a link) and that the chain terminates.
func (c *Catalog) validateChain(r *Ribbon) error {
	seen := map[string]struct{}{r.Code(): {}}
	for s := r.supersede; s != nil; s = s.supersede {
		code := s.Code()
		if _, loop := seen[code]; loop {
			return apperrors.WithMetadata(apperrors.CodeCyclicSupersede, "cyclic supersede chain at "+r.Code(), map[string]string{"code": r.Code(), "target": code})
		}
		seen[code] = struct{}{}
		if registered, ok := c.byCode[code]; s.Enabled() && (!ok || registered != s) {
			return apperrors.WithMetadata(apperrors.CodeUnknownCode, "supersede target "+code+" is not registered", map[string]string{"code": r.Code(), "target": code})
		}
	}
	return nil
}

// RegisterCustom adds r and indexes it as custom ribbon index.
func (c *Catalog) RegisterCustom(index int, r *Ribbon) error {
	if r == nil || r.decoration == nil {
		return apperrors.New(apperrors.CodeInternal, "custom ribbon is required")
	}
	if !r.Enabled() {
		c.logger.Warn("custom ribbon disabled", zap.String("ribbon", r.Name()), zap.String("code", r.Code()))
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.custom[index]; dup {
		return apperrors.WithMetadata(apperrors.CodeDuplicateCode, "duplicate custom ribbon index", map[string]string{"code": r.Code()})
	}
	if err := c.registerLocked(r); err != nil {
		return err
	}
	c.custom[index] = r
	return nil
}

// Lookup returns the ribbon registered for code.
func (c *Catalog) Lookup(code string) (*Ribbon, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.byCode[code]
	return r, ok
}

// Custom returns the custom ribbon with index.
func (c *Catalog) Custom(index int) (*Ribbon, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.custom[index]
	return r, ok
}

// CustomRibbons returns custom ribbons ordered by index.
func (c *Catalog) CustomRibbons() []*Ribbon {
	c.mu.RLock()
	defer c.mu.RUnlock()
	indexes := make([]int, 0, len(c.custom))
	for i := range c.custom {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	result := make([]*Ribbon, 0, len(indexes))
	for _, i := range indexes {
		result = append(result, c.custom[i])
	}
	return result
}

// All returns every ribbon by descending prestige, must-be-first first at
// equal prestige.
func (c *Catalog) All() []*Ribbon {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.ordered)
}

// Len returns the number of registered ribbons.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ordered)
}
