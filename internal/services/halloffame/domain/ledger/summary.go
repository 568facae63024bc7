package ledger

import "github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"

// MissionEvent lists the ribbons one crew member earned on a mission.
type MissionEvent struct {
	Subject string
	Ribbons []*decoration.Ribbon
}

// MissionSummary is shown when a vessel is recovered.
type MissionSummary struct {
	Events []MissionEvent
}

// HasCrewData reports whether any crew member contributed to the summary.
func (s MissionSummary) HasCrewData() bool { return len(s.Events) > 0 }

// SummarizeMission collects the ribbons of the ongoing mission for each
// crew member of a recovered vessel. It has to run before the recovery is
// recorded. Tourists and applicants are left out.
func (r *Registry) SummarizeMission(crew []decoration.Crew) MissionSummary {
	var s MissionSummary
	for _, c := range crew {
		if c.Kind != decoration.KindCrew {
			continue
		}
		s.Events = append(s.Events, MissionEvent{Subject: c.Name, Ribbons: r.RibbonsOfLatestMission(c.Name)})
	}
	return s
}
