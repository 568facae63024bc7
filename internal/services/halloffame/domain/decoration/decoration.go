// Package decoration defines decorations, the ribbons that display them, and
// the catalog they are registered in.
//
// A decoration qualifies through capability checks: each concrete decoration
// implements only the checker interfaces that matter to it, and every check
// it does not implement never qualifies.
package decoration

import "strings"

// Decoration is the immutable definition of one possible award.
type Decoration interface {
	Code() string
	Name() string
	Description() string
	Prestige() int
	MustBeFirst() bool
}

// VesselChecker qualifies on a vessel state transition. previous may be nil.
type VesselChecker interface {
	CheckVesselTransition(previous, current *VesselState) bool
}

// SummaryChecker qualifies on a subject's cumulative counters.
type SummaryChecker interface {
	CheckSubjectSummary(summary Summary) bool
}

// ReportChecker qualifies on an event report.
type ReportChecker interface {
	CheckEventReport(report EventReport) bool
}

// ContractChecker qualifies on a contract.
type ContractChecker interface {
	CheckContract(contract Contract) bool
}

// ProgressChecker qualifies on a progress milestone.
type ProgressChecker interface {
	CheckProgressMilestone(node ProgressNode) bool
}

// RosterChecker qualifies on a roster status transition.
type RosterChecker interface {
	CheckRosterTransition(crew Crew, oldStatus, newStatus RosterStatus) bool
}

// AwardHook mutates subject state beyond holding the ribbon. Any further
// award must go through awarder.
type AwardHook interface {
	OnAward(subject Subject, awarder Awarder)
}

// Subject is the part of a subject entry an award hook may change.
type Subject interface {
	Name() string
	HasVisited(body string) bool
	Visit(body string)
	GrandTour() bool
	MarkGrandTour()
	SubsystemTour() bool
	MarkSubsystemTour()
}

// Awarder records a ribbon by code through the registry award path.
type Awarder interface {
	AwardCode(subject, code string) bool
}

// Renamer is implemented by decorations whose display text is late-bound.
type Renamer interface {
	SetName(name string)
	SetDescription(description string)
}

// Base carries the metadata every decoration shares. Concrete decorations
// embed it and add the checks they need.
type Base struct {
	code        string
	name        string
	description string
	prestige    int
	first       bool
}

// NewBase builds decoration metadata. Must-be-first decorations get a
// "First " name prefix.
func NewBase(code, name string, prestige int, first bool) Base {
	if first {
		name = "First " + name
	}
	return Base{code: code, name: name, prestige: prestige, first: first}
}

// WithDescription returns a copy of b carrying description.
func (b Base) WithDescription(description string) Base {
	b.description = description
	return b
}

func (b *Base) Code() string        { return b.code }
func (b *Base) Name() string        { return b.name }
func (b *Base) Description() string { return b.description }
func (b *Base) Prestige() int       { return b.prestige }
func (b *Base) MustBeFirst() bool   { return b.first }

// FirstText returns the description fragment for must-be-first decorations.
func (b *Base) FirstText() string {
	if b.first {
		return " being the first kerbal "
	}
	return " "
}

// String renders the decoration for logs.
func (b *Base) String() string {
	var sb strings.Builder
	sb.WriteString(b.code)
	sb.WriteString(" (")
	sb.WriteString(b.name)
	sb.WriteString(")")
	return sb.String()
}

// Compare orders decorations by descending prestige, must-be-first before
// the rest at equal prestige, then by code.
func Compare(a, b Decoration) int {
	if a.Prestige() != b.Prestige() {
		if a.Prestige() > b.Prestige() {
			return -1
		}
		return 1
	}
	if a.MustBeFirst() != b.MustBeFirst() {
		if a.MustBeFirst() {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Code(), b.Code())
}
