package ledger

import (
	"slices"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/action"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
)

// Entry is the hall of fame entry of one crew member, keyed by name.
type Entry struct {
	action.Counters

	name       string
	crew       *decoration.Crew
	held       []*decoration.Ribbon
	superseded map[string]*decoration.Ribbon
	visited    map[string]bool
	grandTour  bool
	subsystem  bool
	logbook    []LogbookEntry
}

func newEntry(name string) *Entry {
	return &Entry{
		Counters:   action.NewCounters(),
		name:       name,
		superseded: map[string]*decoration.Ribbon{},
		visited:    map[string]bool{},
	}
}

// Name returns the crew member's name.
func (e *Entry) Name() string { return e.name }

// Crew returns the last known roster record, or nil.
func (e *Entry) Crew() *decoration.Crew { return e.crew }

// SetCrew updates the roster record the entry was last seen with.
func (e *Entry) SetCrew(c decoration.Crew) {
	if c.Name != e.name {
		return
	}
	e.crew = &c
}

// Ribbons returns held ribbons by descending prestige.
func (e *Entry) Ribbons() []*decoration.Ribbon {
	return slices.Clone(e.held)
}

// HasRibbon reports whether r is held.
func (e *Entry) HasRibbon(r *decoration.Ribbon) bool {
	return slices.ContainsFunc(e.held, r.Equal)
}

// IsSuperseded reports whether r was retired by a higher ribbon.
func (e *Entry) IsSuperseded(r *decoration.Ribbon) bool {
	_, ok := e.superseded[r.Code()]
	return ok
}

// Award adds r unless it is held or superseded. onAward runs after r is
// held and before the chains it supersedes are retired.
func (e *Entry) Award(r *decoration.Ribbon, onAward func()) bool {
	if e.HasRibbon(r) || e.IsSuperseded(r) {
		return false
	}
	e.held = append(e.held, r)
	if onAward != nil {
		onAward()
	}
	for s := r.Supersedes(); s != nil; s = s.Supersedes() {
		e.superseded[s.Code()] = s
		e.remove(s)
	}
	slices.SortStableFunc(e.held, decoration.CompareRibbons)
	return true
}

// Revoke removes r and restores the ribbon it directly supersedes. It fails
// when r is not held.
func (e *Entry) Revoke(r *decoration.Ribbon) bool {
	if !e.remove(r) {
		return false
	}
	if s := r.Supersedes(); s != nil && e.IsSuperseded(s) {
		delete(e.superseded, s.Code())
		e.held = append(e.held, s)
		slices.SortStableFunc(e.held, decoration.CompareRibbons)
	}
	return true
}

func (e *Entry) remove(r *decoration.Ribbon) bool {
	i := slices.IndexFunc(e.held, r.Equal)
	if i < 0 {
		return false
	}
	e.held = slices.Delete(e.held, i, i+1)
	return true
}

func (e *Entry) HasVisited(body string) bool { return e.visited[body] }
func (e *Entry) Visit(body string)           { e.visited[body] = true }
func (e *Entry) GrandTour() bool             { return e.grandTour }
func (e *Entry) MarkGrandTour()              { e.grandTour = true }
func (e *Entry) SubsystemTour() bool         { return e.subsystem }
func (e *Entry) MarkSubsystemTour()          { e.subsystem = true }

// Visited returns the names of visited bodies.
func (e *Entry) Visited() []string {
	names := make([]string, 0, len(e.visited))
	for name := range e.visited {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Logbook returns the entry's personal log.
func (e *Entry) Logbook() []LogbookEntry {
	return slices.Clone(e.logbook)
}

func (e *Entry) addLog(l LogbookEntry) {
	e.logbook = append(e.logbook, l)
}

func (e *Entry) dropLog(code string) {
	e.logbook = slices.DeleteFunc(e.logbook, func(l LogbookEntry) bool { return l.Code == code })
}

// Summary snapshots the counters for summary checks. vessel is the vessel
// the crew member is aboard, or nil.
func (e *Entry) Summary(vessel *decoration.VesselState) decoration.Summary {
	return decoration.Summary{
		Name:               e.name,
		MissionsFlown:      e.MissionsFlown,
		Dockings:           e.Dockings,
		ContractsCompleted: e.ContractsCompleted,
		TotalMissionTime:   e.TotalMissionTime,
		TotalEvaTime:       e.TotalEvaTime,
		LastEvaDuration:    e.LastEvaDuration,
		TimeOfLastEva:      e.TimeOfLastEva,
		Research:           e.Research,
		Crew:               e.crew,
		InActiveFlight:     e.TimeOfLastLaunch >= 0,
		Vessel:             vessel,
	}
}
