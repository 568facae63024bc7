package rules

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/bodies"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
)

func stockCatalog(t *testing.T, opts Options) *decoration.Catalog {
	t.Helper()
	c, err := NewStandardCatalog(bodies.Stock(), opts)
	if err != nil {
		t.Fatalf("NewStandardCatalog: %v", err)
	}
	return c
}

func mustRibbon(t *testing.T, c *decoration.Catalog, code string) *decoration.Ribbon {
	t.Helper()
	r, ok := c.Lookup(code)
	if !ok {
		t.Fatalf("ribbon %s not registered", code)
	}
	return r
}

func TestStandardCatalogRegistersFamilies(t *testing.T) {
	c := stockCatalog(t, Options{})
	for _, code := range []string{
		"I:Kerbin", "O:Kerbin", "O1:Kerbin", "L:Mun", "L1:Mun", "A:Eve", "A1:Laythe",
		"DA:Jool", "CSO:Sun", "CSO1:Sun", "DS", "DS1", "M:5", "M:200", "FO:120",
		"MT:432000", "ME:1728000", "EM:1200", "ET:3600", "H:250", "HS:4000", "HL:1000",
		"ML:1500", "ML:4000", "FL:5", "FL:1", "H3", "H18", "M1", "M10", "B10", "B30",
		"N5", "N60", "CP1", "CP2", "YR10", "YR2000", "P1", "P5", "G:10", "G:1",
		"DE", "W", "WE", "C", "EE", "EE1", "S1", "V1", "PN", "PN1", "PS", "PS1",
		"RA", "RU", "RD", "RS", "QS", "QE", "QO", "X14", "Y:24.12-26.12", "Y:4.7-4.7",
		"Y:27.4-27.4", "LF", "GT", "JT", "X0", "X48", "X94", "X100", "X119",
	} {
		mustRibbon(t, c, code)
	}

	for _, code := range []string{"A:Kerbin", "L:Jool", "L:Sun", "DA:Kerbin", "GT1", "JT1", "X3", "MA"} {
		if _, ok := c.Lookup(code); ok {
			t.Fatalf("ribbon %s should not be registered", code)
		}
	}
}

func TestStandardCatalogSupersedeChains(t *testing.T) {
	c := stockCatalog(t, Options{})
	tests := []struct {
		code  string
		chain []string
	}{
		{code: "M:200", chain: []string{"M:100", "M:50", "M:20", "M:5"}},
		{code: "F:Mun", chain: []string{"G:Mun", "L:Mun", "I:Mun"}},
		{code: "F1:Mun", chain: []string{"F:Mun", "G:Mun", "L:Mun", "I:Mun"}},
		{code: "E:Kerbin", chain: []string{"O:Kerbin", "I:Kerbin"}},
		{code: "DO1:Minmus", chain: []string{"DO:Minmus", "O:Minmus", "I:Minmus"}},
		{code: "DA:Jool", chain: []string{"I:Jool"}},
		{code: "X25", chain: []string{"QE"}},
		{code: "X39", chain: []string{"X36", "X33"}},
		{code: "H5", chain: []string{"H4", "H3"}},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			var got []string
			for _, r := range mustRibbon(t, c, tt.code).Chain() {
				got = append(got, r.Code())
			}
			if strings.Join(got, ",") != strings.Join(tt.chain, ",") {
				t.Fatalf("chain = %v, want %v", got, tt.chain)
			}
		})
	}
}

func TestStandardCatalogPrestige(t *testing.T) {
	c := stockCatalog(t, Options{})
	tests := map[string]int{
		"I:Kerbin":  1000,
		"O:Kerbin":  1011,
		"O1:Kerbin": 1012,
		"DA:Jool":   6090,
		"JT":        6098,
		"CSO1:Sun":  50502,
		"X21":       -979,
		"X100":      -2000,
		"H18":       98,
	}
	for code, want := range tests {
		if got := mustRibbon(t, c, code).Decoration().Prestige(); got != want {
			t.Fatalf("%s prestige = %d, want %d", code, got, want)
		}
	}
	all := c.All()
	if all[0].Code() != "S1" {
		t.Fatalf("highest ribbon = %s, want S1", all[0].Code())
	}
}

func TestStandardCatalogDisablesMissingAssets(t *testing.T) {
	c := stockCatalog(t, Options{AssetExists: func(asset string) bool {
		return asset != "Mun/Landing"
	}})
	if _, ok := c.Lookup("L:Mun"); ok {
		t.Fatal("ribbon with missing asset should be disabled")
	}
	// Ribbons further up the chain still register and keep the link.
	g := mustRibbon(t, c, "G:Mun")
	if s := g.Supersedes(); s == nil || s.Code() != "L:Mun" || s.Enabled() {
		t.Fatalf("G:Mun supersedes %v", s)
	}
}

func TestCustomRibbonNames(t *testing.T) {
	c := stockCatalog(t, Options{})
	r, ok := c.Custom(6)
	if !ok {
		t.Fatal("custom ribbon 6 not registered")
	}
	if r.Name() != "Certified Badass Ribbon" || r.Asset() != "CertifiedBadass" {
		t.Fatalf("custom 6 = %q (%s)", r.Name(), r.Asset())
	}
	generic, _ := c.Custom(104)
	if generic.Decoration().Name() != "05 Custom" {
		t.Fatalf("generic name = %q", generic.Decoration().Name())
	}
}

func TestRoman(t *testing.T) {
	tests := map[int]string{0: "", 4: "IV", 9: "IX", 18: "XVIII", 20: "XX", 21: "?", -1: "?"}
	for in, want := range tests {
		if got := Roman(in); got != want {
			t.Fatalf("Roman(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestCalendarRules(t *testing.T) {
	now := time.Date(2014, 12, 25, 12, 0, 0, 0, time.Local)
	c := stockCatalog(t, Options{Clock: func() time.Time { return now }})
	e := decoration.NewEvaluator(nil)
	state := &decoration.VesselState{}

	if !e.VesselTransition(mustRibbon(t, c, "X14").Decoration(), nil, state) {
		t.Fatal("X14 should qualify on 2014-12-25")
	}
	if !e.VesselTransition(mustRibbon(t, c, "Y:24.12-26.12").Decoration(), nil, state) {
		t.Fatal("xmas should qualify on 12-25")
	}
	if e.VesselTransition(mustRibbon(t, c, "Y:4.7-4.7").Decoration(), nil, state) {
		t.Fatal("july 4th should not qualify in december")
	}
	if e.SubjectSummary(mustRibbon(t, c, "X14").Decoration(), decoration.Summary{}) {
		t.Fatal("summary check needs a known crew member")
	}

	now = time.Date(2014, 12, 27, 0, 0, 0, 0, time.Local)
	if e.VesselTransition(mustRibbon(t, c, "X14").Decoration(), nil, state) {
		t.Fatal("X14 window excludes 2014-12-27")
	}
}

func TestVesselPredicates(t *testing.T) {
	system := bodies.Stock()
	kerbin, _ := system.Body("Kerbin")
	mun, _ := system.Body("Mun")
	c := stockCatalog(t, Options{})
	e := decoration.NewEvaluator(nil)

	flying := func(alt float64) *decoration.VesselState {
		return &decoration.VesselState{Body: kerbin, Situation: decoration.SituationFlying, Altitude: alt, LiquidFuelLevel: math.NaN()}
	}
	orbiting := &decoration.VesselState{Body: kerbin, Situation: decoration.SituationOrbiting, Altitude: 80000, ApA: 90000, PeA: 75000, Time: 200, MissionTime: 190, HomeworldLaunchTime: 10}

	tests := []struct {
		name     string
		code     string
		previous *decoration.VesselState
		current  *decoration.VesselState
		want     bool
	}{
		{name: "first in space", code: "S1", previous: flying(69000), current: flying(71000), want: true},
		{name: "still in atmosphere", code: "S1", previous: flying(60000), current: flying(65000), want: false},
		{name: "fast orbit 200", code: "FO:200", previous: flying(69000), current: orbiting, want: true},
		{name: "fast orbit 150 too slow", code: "FO:150", previous: flying(69000), current: orbiting, want: false},
		{name: "orbit", code: "O:Kerbin", current: orbiting, want: true},
		{
			name:     "mun landing",
			code:     "L:Mun",
			previous: &decoration.VesselState{Body: mun, Situation: decoration.SituationFlying},
			current:  &decoration.VesselState{Body: mun, Situation: decoration.SituationLanded},
			want:     true,
		},
		{
			name:     "launch pad does not land",
			code:     "L:Kerbin",
			previous: &decoration.VesselState{Body: kerbin, Situation: decoration.SituationPrelaunch},
			current:  &decoration.VesselState{Body: kerbin, Situation: decoration.SituationLanded},
			want:     false,
		},
		{
			name:     "gee sustained",
			code:     "H5",
			previous: flying(1000),
			current:  &decoration.VesselState{Body: kerbin, Situation: decoration.SituationFlying, GeeForce: 5.5, SustainedGee: 5},
			want:     true,
		},
		{
			name:     "gee not sustained",
			code:     "H6",
			previous: flying(1000),
			current:  &decoration.VesselState{Body: kerbin, Situation: decoration.SituationFlying, GeeForce: 6.5, SustainedGee: 5},
			want:     false,
		},
		{
			name:    "solid fuel launch",
			code:    "B20",
			current: &decoration.VesselState{Body: kerbin, IsLaunch: true, PartsMass: 10, ActiveSolidFuel: 2500},
			want:    true,
		},
		{
			name:     "passengers",
			code:     "P2",
			previous: &decoration.VesselState{Body: kerbin, Situation: decoration.SituationPrelaunch},
			current: &decoration.VesselState{Body: kerbin, Situation: decoration.SituationFlying, Crew: []decoration.Crew{
				{Name: "Jebediah", Kind: decoration.KindCrew}, {Name: "Tourist A", Kind: decoration.KindTourist}, {Name: "Tourist B", Kind: decoration.KindTourist},
			}},
			want: true,
		},
		{
			name:     "low fuel landing with parachutes",
			code:     "FL:5",
			previous: flying(500),
			current: &decoration.VesselState{Body: kerbin, Situation: decoration.SituationLanded, LiquidFuelLevel: 0.01,
				Parachutes: []decoration.ParachuteState{decoration.ParachuteDeployed}},
			want: false,
		},
		{
			name:     "low gravity landing",
			code:     "G:10",
			previous: &decoration.VesselState{Body: mun, Situation: decoration.SituationFlying},
			current:  &decoration.VesselState{Body: mun, Situation: decoration.SituationLanded},
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustRibbon(t, c, tt.code).Decoration()
			if got := e.VesselTransition(d, tt.previous, tt.current); got != tt.want {
				t.Fatalf("%s = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestSummaryPredicates(t *testing.T) {
	c := stockCatalog(t, Options{})
	e := decoration.NewEvaluator(nil)
	pilot := &decoration.Crew{Name: "Jebediah", Trait: "Pilot"}

	tests := []struct {
		name    string
		code    string
		summary decoration.Summary
		want    bool
	}{
		{name: "five missions", code: "M:5", summary: decoration.Summary{MissionsFlown: 5}, want: true},
		{name: "four missions", code: "M:5", summary: decoration.Summary{MissionsFlown: 4}, want: false},
		{name: "pilot service", code: "QO", summary: decoration.Summary{MissionsFlown: 1, Crew: pilot}, want: true},
		{name: "pilot in scientist service", code: "QS", summary: decoration.Summary{MissionsFlown: 1, Crew: pilot}, want: false},
		{name: "endurance in flight", code: "ME:1728000", summary: decoration.Summary{InActiveFlight: true, Vessel: &decoration.VesselState{MissionTime: 2e6}}, want: false},
		{name: "endurance returned", code: "ME:1728000", summary: decoration.Summary{Vessel: &decoration.VesselState{MissionTime: 2e6}}, want: true},
		{name: "eva endurance", code: "EM:1200", summary: decoration.Summary{TimeOfLastEva: 10, LastEvaDuration: 1200}, want: true},
		{name: "research", code: "YR50", summary: decoration.Summary{Research: 49.5}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustRibbon(t, c, tt.code).Decoration()
			if got := e.SubjectSummary(d, tt.summary); got != tt.want {
				t.Fatalf("%s = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestOtherPredicates(t *testing.T) {
	c := stockCatalog(t, Options{})
	e := decoration.NewEvaluator(nil)

	if !e.Contract(mustRibbon(t, c, "CP2").Decoration(), decoration.Contract{State: decoration.ContractCompleted, Prestige: decoration.ContractExceptional}) {
		t.Fatal("exceptional contract should qualify")
	}
	if e.Contract(mustRibbon(t, c, "CP2").Decoration(), decoration.Contract{State: decoration.ContractFailed, Prestige: decoration.ContractExceptional}) {
		t.Fatal("failed contract should not qualify")
	}
	if !e.ProgressMilestone(mustRibbon(t, c, "RA").Decoration(), decoration.ProgressNode{Kind: decoration.RecordAltitude, Reached: true, Record: 1500}) {
		t.Fatal("altitude record should qualify")
	}
	if e.ProgressMilestone(mustRibbon(t, c, "RS").Decoration(), decoration.ProgressNode{Kind: decoration.RecordSpeed, Reached: true, Record: 80}) {
		t.Fatal("slow speed record should not qualify")
	}
	if !e.RosterTransition(mustRibbon(t, c, "LF").Decoration(), decoration.Crew{}, decoration.StatusMissing, decoration.StatusAvailable) {
		t.Fatal("missing kerbal returning should qualify")
	}
	report := decoration.EventReport{Type: decoration.EventCollision, Origin: &decoration.VesselState{Type: decoration.VesselEVA}}
	if e.EventReport(mustRibbon(t, c, "C").Decoration(), report) {
		t.Fatal("EVA collision should not qualify")
	}
}
