// Package bodies models the celestial body system ribbons are built for.
package bodies

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	apperrors "github.com/louisbranch/finalfrontier/internal/platform/errors"
	"github.com/pelletier/go-toml/v2"
)

//go:embed kerbol.toml
var stockSystem []byte

// Body is one celestial body. Orbit altitudes are relative to the parent's
// surface.
type Body struct {
	Name            string  `toml:"name"`
	Parent          string  `toml:"parent"`
	Radius          float64 `toml:"radius"`
	AtmosphereDepth float64 `toml:"atmosphere_depth"`
	Oxygen          bool    `toml:"oxygen"`
	SOI             float64 `toml:"soi"`
	GeeASL          float64 `toml:"gee_asl"`
	Periapsis       float64 `toml:"periapsis"`
	Apoapsis        float64 `toml:"apoapsis"`
	GasGiant        bool    `toml:"gas_giant"`
	Star            bool    `toml:"star"`
	Home            bool    `toml:"home"`
	// Prestige overrides the base prestige table when non-zero.
	Prestige int `toml:"prestige"`
}

// HasAtmosphere reports whether the body has any atmosphere.
func (b *Body) HasAtmosphere() bool {
	return b != nil && b.AtmosphereDepth > 0
}

// System is a loaded body system.
type System struct {
	Name string `toml:"name"`
	// Tour names the primary whose moons make up the sub-system tour.
	Tour   string  `toml:"tour"`
	Bodies []*Body `toml:"body"`

	byName map[string]*Body
	home   *Body
}

// Stock returns the embedded stock system.
func Stock() *System {
	system, err := Load(bytes.NewReader(stockSystem))
	if err != nil {
		panic(fmt.Sprintf("stock body system: %v", err))
	}
	return system
}

// LoadFile reads a system from a TOML file.
func LoadFile(path string) (*System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open body system: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a system from TOML.
func Load(r io.Reader) (*System, error) {
	var system System
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&system); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigInvalid, "decode body system", err)
	}
	if err := system.index(); err != nil {
		return nil, err
	}
	return &system, nil
}

func (s *System) index() error {
	if len(s.Bodies) == 0 {
		return apperrors.New(apperrors.CodeConfigInvalid, "body system has no bodies")
	}
	s.byName = make(map[string]*Body, len(s.Bodies))
	for _, b := range s.Bodies {
		b.Name = strings.TrimSpace(b.Name)
		if b.Name == "" {
			return apperrors.New(apperrors.CodeConfigInvalid, "body without name")
		}
		if _, dup := s.byName[b.Name]; dup {
			return apperrors.WithMetadata(apperrors.CodeConfigInvalid, "duplicate body "+b.Name, map[string]string{"body": b.Name})
		}
		if b.SOI == 0 {
			b.SOI = math.Inf(1)
		}
		s.byName[b.Name] = b
		if b.Home {
			if s.home != nil {
				return apperrors.New(apperrors.CodeConfigInvalid, "more than one homeworld")
			}
			s.home = b
		}
	}
	for _, b := range s.Bodies {
		if b.Parent == "" {
			continue
		}
		if _, ok := s.byName[b.Parent]; !ok {
			return apperrors.WithMetadata(apperrors.CodeConfigInvalid, "unknown parent "+b.Parent, map[string]string{"body": b.Name})
		}
	}
	if s.home == nil {
		return apperrors.New(apperrors.CodeConfigInvalid, "body system has no homeworld")
	}
	return nil
}

// Body looks up a body by name.
func (s *System) Body(name string) (*Body, bool) {
	b, ok := s.byName[name]
	return b, ok
}

// Home returns the homeworld.
func (s *System) Home() *Body {
	return s.home
}

// Parent returns the body b orbits, or nil.
func (s *System) Parent(b *Body) *Body {
	if b == nil || b.Parent == "" {
		return nil
	}
	return s.byName[b.Parent]
}

// Sun returns the star the homeworld ultimately orbits.
func (s *System) Sun() *Body {
	for b := s.home; b != nil; b = s.Parent(b) {
		if b.Star {
			return b
		}
	}
	return nil
}

// IsSunOfHomeworld reports whether b is the homeworld's star.
func (s *System) IsSunOfHomeworld(b *Body) bool {
	sun := s.Sun()
	return sun != nil && b == sun
}

// Moons returns the bodies directly orbiting the named body.
func (s *System) Moons(name string) []*Body {
	var moons []*Body
	for _, b := range s.Bodies {
		if b.Parent == name {
			moons = append(moons, b)
		}
	}
	return moons
}

// Innermost returns the orbiter of b with the lowest periapsis.
func (s *System) Innermost(b *Body) *Body {
	var result *Body
	for _, orbiter := range s.Moons(b.Name) {
		if result == nil || orbiter.Periapsis < result.Periapsis {
			result = orbiter
		}
	}
	return result
}

// Outermost returns the orbiter of b with the highest apoapsis.
func (s *System) Outermost(b *Body) *Body {
	var result *Body
	for _, orbiter := range s.Moons(b.Name) {
		if result == nil || orbiter.Apoapsis > result.Apoapsis {
			result = orbiter
		}
	}
	return result
}

// NonStarBodies lists every body that is not a star, in system order.
func (s *System) NonStarBodies() []*Body {
	var result []*Body
	for _, b := range s.Bodies {
		if !b.Star {
			result = append(result, b)
		}
	}
	return result
}

// TourPrimary returns the body whose moons form the sub-system tour.
func (s *System) TourPrimary() (*Body, bool) {
	if s.Tour == "" {
		return nil, false
	}
	b, ok := s.byName[s.Tour]
	if !ok || len(s.Moons(b.Name)) == 0 {
		return nil, false
	}
	return b, true
}

// Names returns body names sorted alphabetically.
func (s *System) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultBasePrestige is used for bodies outside the stock table.
const DefaultBasePrestige = 99000

var basePrestige = map[string]int{
	"Kerbin": 1000,
	"Mun":    1200,
	"Minmus": 1400,
	"Gilly":  2000,
	"Ike":    2200,
	"Duna":   2400,
	"Eve":    3000,
	"Moho":   4000,
	"Dres":   5000,
	"Jool":   6000,
	"Vall":   6200,
	"Tylo":   6400,
	"Bop":    6600,
	"Pol":    6800,
	"Laythe": 7000,
	"Eeloo":  8000,
	"Sun":    9000,
}

// BasePrestige returns the prestige ribbons of b are offset from.
func BasePrestige(b *Body) int {
	if b == nil {
		return DefaultBasePrestige
	}
	if b.Prestige != 0 {
		return b.Prestige
	}
	if p, ok := basePrestige[b.Name]; ok {
		return p
	}
	return DefaultBasePrestige
}
