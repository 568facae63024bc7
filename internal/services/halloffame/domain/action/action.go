// Package action defines the recordable life-cycle events of a crew member
// and how each one changes the member's counters.
package action

import (
	"strconv"
	"strings"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
)

// Action codes as they appear in the logbook.
const (
	CodeLaunch          = "L+"
	CodeDocking         = "D+"
	CodeRecover         = "R+"
	CodeBoarding        = "B+"
	CodeEVANoAtmosphere = "EN+"
	CodeEVAOxygen       = "EO+"
	CodeEVAAtmosphere   = "EA+"
	CodeContract        = "C+"
	CodeScience         = "S+"
)

// Counters are the cumulative per-subject values actions mutate.
type Counters struct {
	MissionsFlown      int
	Dockings           int
	ContractsCompleted int
	TimeOfLastLaunch   float64
	TimeOfLastEva      float64
	TotalMissionTime   float64
	TotalEvaTime       float64
	LastEvaDuration    float64
	Research           float64

	OnEVA bool
	// EVA is the code of the EVA action in progress, empty when not on EVA.
	EVA string
	// EVATime accumulates EVA time per EVA action code.
	EVATime map[string]float64
}

// NewCounters returns counters of a subject nothing happened to yet.
func NewCounters() Counters {
	return Counters{
		TimeOfLastLaunch: decoration.NoTime,
		TimeOfLastEva:    decoration.NoTime,
		EVATime:          map[string]float64{},
	}
}

// Action is a recordable event. Apply reports whether the action took
// effect; actions that do not are not logged.
type Action struct {
	code  string
	name  string
	apply func(t float64, c *Counters, data string) bool
	text  func(data string) string
}

// Code returns the logbook code.
func (a *Action) Code() string { return a.code }

// Name returns a display name.
func (a *Action) Name() string { return a.name }

// Apply runs the action at game time t.
func (a *Action) Apply(t float64, c *Counters, data string) bool {
	if c.EVATime == nil {
		c.EVATime = map[string]float64{}
	}
	return a.apply(t, c, data)
}

// Describe renders the logbook line for an entry of this action.
func (a *Action) Describe(subject, data string) string {
	return subject + " " + a.text(data)
}

func (a *Action) String() string { return a.code }

func fixed(text string) func(string) string {
	return func(string) string { return text }
}

var (
	Launch = &Action{code: CodeLaunch, name: "Launch", text: fixed("launched a mission"),
		apply: func(t float64, c *Counters, _ string) bool {
			c.TimeOfLastLaunch = t
			return true
		}}

	Recover = &Action{code: CodeRecover, name: "Recover", text: fixed("returned from a mission"),
		apply: func(t float64, c *Counters, _ string) bool {
			if c.TimeOfLastLaunch < 0 {
				return false
			}
			c.MissionsFlown++
			c.TotalMissionTime += t - c.TimeOfLastLaunch
			c.TimeOfLastLaunch = decoration.NoTime
			return true
		}}

	Docking = &Action{code: CodeDocking, name: "Docking", text: fixed("docked on another spacecraft"),
		apply: func(_ float64, c *Counters, _ string) bool {
			c.Dockings++
			return true
		}}

	Boarding = &Action{code: CodeBoarding, name: "Boarding", text: fixed("returned from EVA"),
		apply: func(t float64, c *Counters, _ string) bool {
			if !c.OnEVA {
				return false
			}
			d := t - c.TimeOfLastEva
			c.LastEvaDuration = d
			c.TotalEvaTime += d
			if c.EVA != "" {
				c.EVATime[c.EVA] += d
			}
			c.OnEVA = false
			c.EVA = ""
			return true
		}}

	EVANoAtmosphere = newEVA(CodeEVANoAtmosphere, "EVA", "went on EVA in zero atmosphere")
	EVAOxygen       = newEVA(CodeEVAOxygen, "EVA With Oxygen", "went on EVA in an atmosphere with oxygen")
	EVAAtmosphere   = newEVA(CodeEVAAtmosphere, "EVA In Atmosphere", "went on EVA in an atmosphere")

	Contract = &Action{code: CodeContract, name: "Contract", text: fixed("completed a contract"),
		apply: func(_ float64, c *Counters, _ string) bool {
			c.ContractsCompleted++
			return true
		}}

	Science = &Action{code: CodeScience, name: "Science",
		text: func(data string) string { return "researched " + data + " science points" },
		apply: func(_ float64, c *Counters, data string) bool {
			v, err := strconv.ParseFloat(strings.TrimSpace(data), 64)
			if err != nil {
				return false
			}
			c.Research += v
			return true
		}}
)

func newEVA(code, name, text string) *Action {
	return &Action{code: code, name: name, text: fixed(text),
		apply: func(t float64, c *Counters, _ string) bool {
			if c.OnEVA {
				return false
			}
			c.OnEVA = true
			c.EVA = code
			c.TimeOfLastEva = t
			return true
		}}
}

var all = []*Action{Launch, Docking, Recover, Boarding, EVANoAtmosphere, EVAOxygen, EVAAtmosphere, Contract, Science}

var byCode = func() map[string]*Action {
	m := make(map[string]*Action, len(all))
	for _, a := range all {
		m[a.code] = a
	}
	return m
}()

// Lookup returns the action for code.
func Lookup(code string) (*Action, bool) {
	a, ok := byCode[code]
	return a, ok
}

// All returns every action in registration order.
func All() []*Action {
	return append([]*Action(nil), all...)
}

// EVAFor picks the EVA action for a kerbal leaving from vessel.
func EVAFor(vessel *decoration.VesselState) *Action {
	if vessel == nil || vessel.AtmDensity <= decoration.NoAtmosphere {
		return EVANoAtmosphere
	}
	if vessel.Body != nil && vessel.Body.Oxygen {
		return EVAOxygen
	}
	return EVAAtmosphere
}
