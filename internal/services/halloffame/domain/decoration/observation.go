package decoration

import (
	"math"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/bodies"
)

// NoAtmosphere is the density below which a vessel counts as in vacuum.
const NoAtmosphere = 1e-7

// NoTime marks an unknown timestamp.
const NoTime = -1.0

// Situation is the flight situation of a vessel.
type Situation int

const (
	SituationPrelaunch Situation = iota
	SituationLanded
	SituationSplashed
	SituationFlying
	SituationSubOrbital
	SituationOrbiting
	SituationEscaping
	SituationDocked
)

var situationNames = [...]string{"PRELAUNCH", "LANDED", "SPLASHED", "FLYING", "SUB_ORBITAL", "ORBITING", "ESCAPING", "DOCKED"}

func (s Situation) String() string {
	if s < 0 || int(s) >= len(situationNames) {
		return "UNKNOWN"
	}
	return situationNames[s]
}

// ParseSituation maps a situation name to its value.
func ParseSituation(name string) (Situation, bool) {
	for i, n := range situationNames {
		if n == name {
			return Situation(i), true
		}
	}
	return 0, false
}

// VesselType classifies a vessel.
type VesselType int

const (
	VesselShip VesselType = iota
	VesselEVA
	VesselRover
	VesselFlag
	VesselPlane
	VesselLander
	VesselProbe
	VesselStation
	VesselBase
	VesselDebris
)

var vesselTypeNames = [...]string{"Ship", "EVA", "Rover", "Flag", "Plane", "Lander", "Probe", "Station", "Base", "Debris"}

func (t VesselType) String() string {
	if t < 0 || int(t) >= len(vesselTypeNames) {
		return "Unknown"
	}
	return vesselTypeNames[t]
}

// ParseVesselType maps a type name to its value.
func ParseVesselType(name string) (VesselType, bool) {
	for i, n := range vesselTypeNames {
		if n == name {
			return VesselType(i), true
		}
	}
	return 0, false
}

// CrewKind distinguishes crew from passengers.
type CrewKind int

const (
	KindCrew CrewKind = iota
	KindTourist
	KindApplicant
	KindUnowned
)

// RosterStatus is a crew member's roster status.
type RosterStatus int

const (
	StatusAvailable RosterStatus = iota
	StatusAssigned
	StatusDead
	StatusMissing
)

// Crew is a crew member as seen by the roster.
type Crew struct {
	Name   string
	Kind   CrewKind
	Trait  string
	Status RosterStatus
}

// ParachuteState is the deployment state of a parachute.
type ParachuteState int

const (
	ParachuteStowed ParachuteState = iota
	ParachuteActive
	ParachuteSemiDeployed
	ParachuteDeployed
	ParachuteCut
)

// VesselState is one snapshot of a vessel.
type VesselState struct {
	VesselID   string
	VesselName string
	Type       VesselType
	Situation  Situation
	Body       *bodies.Body
	// Time is the universal time the snapshot was taken at.
	Time float64

	Altitude   float64
	ApA        float64
	PeA        float64
	AtmDensity float64
	Latitude   float64
	Longitude  float64
	Mach       float64
	GeeForce   float64

	TotalMass       float64
	PartsMass       float64
	ActiveSolidFuel float64
	// LiquidFuelLevel is level/capacity, NaN without tanks.
	LiquidFuelLevel float64
	Parachutes      []ParachuteState

	Crew        []Crew
	MissionTime float64
	LaunchTime  float64

	IsLaunch       bool
	FlagPlanted    bool
	MovedOnSurface bool

	// HomeworldLaunchTime and SustainedGee are filled in from the vessel
	// observer.
	HomeworldLaunchTime float64
	SustainedGee        int
}

func (v *VesselState) IsEVA() bool        { return v.Type == VesselEVA }
func (v *VesselState) IsLanded() bool     { return v.Situation == SituationLanded }
func (v *VesselState) IsSplashed() bool   { return v.Situation == SituationSplashed }
func (v *VesselState) IsPrelaunch() bool  { return v.Situation == SituationPrelaunch }
func (v *VesselState) IsFlying() bool     { return v.Situation == SituationFlying }
func (v *VesselState) IsDocked() bool     { return v.Situation == SituationDocked }
func (v *VesselState) IsLandedOrSplashed() bool {
	return v.IsLanded() || v.IsSplashed()
}

// OnSurface reports landed, splashed, or on the launch pad.
func (v *VesselState) OnSurface() bool {
	return v.IsLandedOrSplashed() || v.IsPrelaunch()
}

// ApR is the apoapsis radius.
func (v *VesselState) ApR() float64 {
	if v.Body == nil {
		return v.ApA
	}
	return v.ApA + v.Body.Radius
}

// InOrbit reports a stable orbit: both apsides above the atmosphere and the
// apoapsis inside the sphere of influence.
func (v *VesselState) InOrbit() bool {
	if v.Body == nil {
		return false
	}
	if v.ApA <= 0 || v.PeA <= 0 {
		return false
	}
	if v.PeA <= v.Body.AtmosphereDepth {
		return false
	}
	return v.ApR() < v.Body.SOI
}

// InAtmosphere reports whether the vessel is below the atmosphere ceiling.
func (v *VesselState) InAtmosphere() bool {
	return v.Body.HasAtmosphere() && v.Altitude < v.Body.AtmosphereDepth
}

// AtHome reports whether the vessel orbits the homeworld.
func (v *VesselState) AtHome() bool {
	return v.Body != nil && v.Body.Home
}

// OnBody reports whether the vessel's main body is b.
func (v *VesselState) OnBody(b *bodies.Body) bool {
	return v.Body != nil && b != nil && v.Body.Name == b.Name
}

// CrewCount counts members of kind crew.
func (v *VesselState) CrewCount() int {
	return v.countKind(KindCrew)
}

// TouristCount counts members of kind tourist.
func (v *VesselState) TouristCount() int {
	return v.countKind(KindTourist)
}

func (v *VesselState) countKind(kind CrewKind) int {
	n := 0
	for _, c := range v.Crew {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// ParachutesUsed reports whether any parachute left its stowed state.
func (v *VesselState) ParachutesUsed() bool {
	for _, p := range v.Parachutes {
		if p != ParachuteStowed {
			return true
		}
	}
	return false
}

// HasLiquidFuelTanks reports whether a fuel level is known.
func (v *VesselState) HasLiquidFuelTanks() bool {
	return !math.IsNaN(v.LiquidFuelLevel)
}

// Clone returns an independent copy.
func (v *VesselState) Clone() *VesselState {
	if v == nil {
		return nil
	}
	c := *v
	c.Crew = append([]Crew(nil), v.Crew...)
	c.Parachutes = append([]ParachuteState(nil), v.Parachutes...)
	return &c
}

// AsLaunch returns a copy flagged as a launch snapshot.
func (v *VesselState) AsLaunch() *VesselState {
	c := v.Clone()
	c.IsLaunch = true
	return c
}

// AsDocked returns a copy in the docked situation.
func (v *VesselState) AsDocked() *VesselState {
	c := v.Clone()
	c.Situation = SituationDocked
	return c
}

// AsFlagPlanted returns a copy with a planted flag.
func (v *VesselState) AsFlagPlanted() *VesselState {
	c := v.Clone()
	c.FlagPlanted = true
	return c
}

// AsMovedOnSurface returns a copy that has moved while landed.
func (v *VesselState) AsMovedOnSurface() *VesselState {
	c := v.Clone()
	c.MovedOnSurface = true
	return c
}

// AsNonEVA returns a copy that is not an EVA.
func (v *VesselState) AsNonEVA() *VesselState {
	c := v.Clone()
	if c.Type == VesselEVA {
		c.Type = VesselShip
	}
	return c
}

// EventType classifies an event report.
type EventType int

const (
	EventCollision EventType = iota
	EventCrash
	EventStageSeparation
)

// EventReport is a discrete in-flight event.
type EventReport struct {
	Type   EventType
	Origin *VesselState
}

// ContractState is the state of a contract.
type ContractState int

const (
	ContractOffered ContractState = iota
	ContractActive
	ContractCompleted
	ContractFailed
)

// ContractPrestige is the prestige tier of a contract.
type ContractPrestige int

const (
	ContractTrivial ContractPrestige = iota
	ContractSignificant
	ContractExceptional
)

var contractPrestigeNames = [...]string{"Trivial", "Significant", "Exceptional"}

func (p ContractPrestige) String() string {
	if p < 0 || int(p) >= len(contractPrestigeNames) {
		return "Unknown"
	}
	return contractPrestigeNames[p]
}

// Contract is a contract as reported on completion or failure.
type Contract struct {
	Title    string
	State    ContractState
	Prestige ContractPrestige
}

// RecordKind is the kind of a progress record.
type RecordKind int

const (
	RecordNone RecordKind = iota
	RecordAltitude
	RecordDepth
	RecordDistance
	RecordSpeed
)

// ProgressNode is a progress milestone.
type ProgressNode struct {
	ID      string
	Kind    RecordKind
	Reached bool
	Record  float64
}

// Summary is a view of a subject's cumulative counters together with what the
// roster knows about the crew member.
type Summary struct {
	Name               string
	MissionsFlown      int
	Dockings           int
	ContractsCompleted int
	TotalMissionTime   float64
	TotalEvaTime       float64
	LastEvaDuration    float64
	TimeOfLastEva      float64
	Research           float64

	// Crew is the roster entry, or nil when unknown.
	Crew *Crew
	// InActiveFlight reports membership of the active vessel's crew.
	InActiveFlight bool
	// Vessel is the vessel the crew member is aboard, or nil.
	Vessel *VesselState
}
