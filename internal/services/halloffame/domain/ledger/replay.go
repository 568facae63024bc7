package ledger

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/action"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"go.uber.org/zap"
)

// SameTransactionWindow is the largest time difference between two records
// of the same code that a replay still treats as one award batch. There is
// no transaction marker in the log, so this is an approximation: unrelated
// awards of one code within the window are merged too.
const SameTransactionWindow = 1.0

// legacyCodes maps codes of older logs to their current form.
var legacyCodes = map[string]string{
	"CO":  "CSO:Sun",
	"CO1": "CSO1:Sun",
}

func sameTransaction(a LogbookEntry, b *LogbookEntry) bool {
	if b == nil || a.Code != b.Code {
		return false
	}
	return math.Abs(a.Time-b.Time) <= SameTransactionWindow
}

// ReplayStats counts what a rebuild did with the records it was given.
type ReplayStats struct {
	Records     int
	Actions     int
	Awards      int
	DataChanges int
	Skipped     int
}

// Rebuild clears the registry and replays book in order without modifying
// it. Records that cannot be applied are logged and skipped. Award hooks run
// during the replay but their cascade awards are not logged again; the log
// already holds them.
func (r *Registry) Rebuild(book []LogbookEntry) ReplayStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()

	book = slices.Clone(book)
	stats := ReplayStats{Records: len(book)}
	var last *LogbookEntry
	for i := range book {
		l := book[i]
		switch {
		case l.IsDataChange():
			if r.changeCustomRibbon(l) {
				stats.DataChanges++
			} else {
				stats.Skipped++
			}
			r.appendLocked(nil, l)
			// Data changes do not split an award transaction.
			continue
		default:
			l.Name = r.sanitize(l.Name)
			e, _ := r.createLocked(l.Name)
			if a, ok := action.Lookup(l.Code); ok {
				a.Apply(l.Time, &e.Counters, l.Data)
				r.appendLocked(e, l)
				stats.Actions++
				break
			}
			if code, ok := legacyCodes[l.Code]; ok {
				l.Code = code
			}
			ribbon, ok := r.catalog.Lookup(l.Code)
			if !ok {
				r.logger.Warn("no ribbon for logbook code", zap.String("code", l.Code), zap.String("subject", l.Name))
				stats.Skipped++
				break
			}
			d := ribbon.Decoration()
			same := sameTransaction(l, last)
			if d.MustBeFirst() && r.accomplished[d.Code()] && !same {
				stats.Skipped++
				break
			}
			if same {
				l.Time = last.Time
			}
			e.Award(ribbon, func() { r.evaluator.OnAward(d, e, replayAwarder{r}) })
			r.appendLocked(e, l)
			r.accomplished[d.Code()] = true
			stats.Awards++
		}
		book[i] = l
		last = &book[i]
	}
	r.logger.Info("hall of fame rebuilt from logbook",
		zap.Int("records", stats.Records),
		zap.Int("entries", len(r.entries)),
		zap.Int("skipped", stats.Skipped))
	return stats
}

func (r *Registry) changeCustomRibbon(l LogbookEntry) bool {
	index, err := strconv.Atoi(strings.TrimPrefix(l.Code, DataChangePrefix))
	if err != nil {
		r.logger.Error("invalid custom ribbon code", zap.String("code", l.Code))
		return false
	}
	ribbon, ok := r.catalog.Custom(index)
	if !ok {
		r.logger.Error("invalid custom ribbon code", zap.String("code", l.Code))
		return false
	}
	renamer, ok := ribbon.Decoration().(decoration.Renamer)
	if !ok {
		r.logger.Error("ribbon is not a custom ribbon", zap.String("code", ribbon.Code()))
		return false
	}
	renamer.SetName(l.Name)
	renamer.SetDescription(l.Data)
	return true
}

// replayAwarder applies cascade awards during a rebuild. The registry lock
// is held by Rebuild.
type replayAwarder struct{ r *Registry }

func (a replayAwarder) AwardCode(subject, code string) bool {
	ribbon, ok := a.r.catalog.Lookup(code)
	if !ok {
		return false
	}
	e, ok := a.r.entries[subject]
	if !ok {
		return false
	}
	d := ribbon.Decoration()
	if d.MustBeFirst() && a.r.accomplished[d.Code()] {
		return false
	}
	if !e.Award(ribbon, func() { a.r.evaluator.OnAward(d, e, a) }) {
		return false
	}
	a.r.accomplished[d.Code()] = true
	return true
}
