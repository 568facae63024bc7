package observer

import (
	"sync"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"go.uber.org/zap"
)

// Set bundles the inspectors sampled from the active vessel.
type Set struct {
	Mach       *MachInspector
	Altitude   *AltitudeInspector
	Orbit      *OrbitInspector
	Atmosphere *AtmosphereInspector
	Gee        *GeeInspector
}

// NewSet returns fresh inspectors.
func NewSet(logger *zap.Logger) *Set {
	return &Set{
		Mach:       NewMachInspector(logger),
		Altitude:   NewAltitudeInspector(logger),
		Orbit:      NewOrbitInspector(),
		Atmosphere: NewAtmosphereInspector(),
		Gee:        NewGeeInspector(logger),
	}
}

func (s *Set) all() []Inspector {
	return []Inspector{s.Mach, s.Altitude, s.Orbit, s.Atmosphere, s.Gee}
}

// Inspect samples v with every inspector.
func (s *Set) Inspect(v *decoration.VesselState) {
	for _, i := range s.all() {
		i.Inspect(v)
	}
}

// Changed reports whether any inspector saw a change since the last Clear.
func (s *Set) Changed() bool {
	for _, i := range s.all() {
		if i.Changed() {
			return true
		}
	}
	return false
}

// Clear clears every changed flag.
func (s *Set) Clear() {
	for _, i := range s.all() {
		i.Clear()
	}
}

// Reset resets every inspector.
func (s *Set) Reset() {
	for _, i := range s.all() {
		i.Reset()
	}
}

type vesselData struct {
	homeworldLaunch float64
	gee             int
}

// VesselObserver remembers per-vessel state across vessel switches.
type VesselObserver struct {
	logger *zap.Logger

	mu      sync.Mutex
	vessels map[string]*vesselData
}

// NewVesselObserver returns an empty observer.
func NewVesselObserver(logger *zap.Logger) *VesselObserver {
	return &VesselObserver{logger: nopIfNil(logger), vessels: map[string]*vesselData{}}
}

func (o *VesselObserver) data(id string) *vesselData {
	d, ok := o.vessels[id]
	if !ok {
		d = &vesselData{homeworldLaunch: decoration.NoTime, gee: 1}
		o.vessels[id] = d
	}
	return d
}

// SetHomeworldLaunchTime records when vessel id left the homeworld.
func (o *VesselObserver) SetHomeworldLaunchTime(id string, t float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logger.Debug("set homeworld launch time", zap.String("vessel", id), zap.Float64("time", t))
	o.data(id).homeworldLaunch = t
}

// HomeworldLaunchTime returns the homeworld launch time of vessel id or
// NoTime.
func (o *VesselObserver) HomeworldLaunchTime(id string) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if d, ok := o.vessels[id]; ok {
		return d.homeworldLaunch
	}
	return decoration.NoTime
}

// SetSustainedGee records the highest sustained g level of vessel id.
func (o *VesselObserver) SetSustainedGee(id string, gee int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logger.Debug("set sustained gee force", zap.String("vessel", id), zap.Int("gee", gee))
	o.data(id).gee = gee
}

// SustainedGee returns the sustained g level of vessel id, or 1.
func (o *VesselObserver) SustainedGee(id string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if d, ok := o.vessels[id]; ok {
		return d.gee
	}
	return 1
}

// Revert forgets launch times later than t.
func (o *VesselObserver) Revert(t float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logger.Debug("reverting vessel observer", zap.Float64("time", t))
	for _, d := range o.vessels {
		if d.homeworldLaunch > t {
			d.homeworldLaunch = decoration.NoTime
		}
	}
}

// Fill copies the observed values of v's vessel into v.
func (o *VesselObserver) Fill(v *decoration.VesselState) {
	if v == nil {
		return
	}
	v.HomeworldLaunchTime = o.HomeworldLaunchTime(v.VesselID)
	v.SustainedGee = o.SustainedGee(v.VesselID)
}
