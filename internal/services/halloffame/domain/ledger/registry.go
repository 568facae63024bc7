package ledger

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/action"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GameClock returns the current game time in seconds.
type GameClock func() float64

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithGameClock sets the clock used to stamp records outside transactions.
func WithGameClock(clock GameClock) Option {
	return func(r *Registry) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithAwardLevel sets the level award messages are logged at.
func WithAwardLevel(level zapcore.Level) Option {
	return func(r *Registry) { r.awardLevel = level }
}

// Registry is the single authority for held ribbons and the award log.
//
// The mutex guards entries, the log and the accomplished set against host
// save and load callbacks. Evaluation itself runs on one goroutine and award
// hooks are invoked without the lock held.
type Registry struct {
	catalog    *decoration.Catalog
	evaluator  *decoration.Evaluator
	logger     *zap.Logger
	awardLevel zapcore.Level
	now        GameClock

	mu           sync.Mutex
	entries      map[string]*Entry
	logbook      []LogbookEntry
	accomplished map[string]bool
	transaction  map[string]bool
	inTx         bool
	txTime       float64
}

// NewRegistry builds an empty registry awarding ribbons of catalog.
func NewRegistry(catalog *decoration.Catalog, opts ...Option) *Registry {
	r := &Registry{
		catalog:      catalog,
		logger:       zap.NewNop(),
		awardLevel:   zap.DebugLevel,
		now:          func() float64 { return 0 },
		entries:      map[string]*Entry{},
		accomplished: map[string]bool{},
		transaction:  map[string]bool{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.evaluator = decoration.NewEvaluator(r.logger)
	return r
}

// Catalog returns the catalog ribbons are looked up in.
func (r *Registry) Catalog() *decoration.Catalog { return r.catalog }

// Evaluator returns the check boundary shared with the driver.
func (r *Registry) Evaluator() *decoration.Evaluator { return r.evaluator }

func (r *Registry) sanitize(name string) string {
	clean, changed := SanitizeName(name)
	if changed {
		r.logger.Error("subject name contains the record delimiter", zap.String("subject", name), zap.String("replaced", clean))
	}
	return clean
}

func (r *Registry) createLocked(name string) (*Entry, bool) {
	if e, ok := r.entries[name]; ok {
		return e, false
	}
	e := newEntry(name)
	r.entries[name] = e
	return e, true
}

// GetOrCreate returns the entry for name, creating it with a warning when it
// was not synced from the roster first.
func (r *Registry) GetOrCreate(name string) *Entry {
	name = r.sanitize(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	e, created := r.createLocked(name)
	if created {
		r.logger.Warn("no hall of fame entry found, creating one", zap.String("subject", name))
	}
	return e
}

// Refresh creates the entry for a roster member if it is missing.
func (r *Registry) Refresh(crew decoration.Crew) *Entry {
	name := r.sanitize(crew.Name)
	r.mu.Lock()
	defer r.mu.Unlock()
	e, _ := r.createLocked(name)
	crew.Name = name
	e.SetCrew(crew)
	return e
}

// Entry returns the entry for name. Names are matched in their sanitized
// form.
func (r *Registry) Entry(name string) (*Entry, bool) {
	name, _ = SanitizeName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	return e, ok
}

// Contains reports whether name has an entry.
func (r *Registry) Contains(name string) bool {
	_, ok := r.Entry(name)
	return ok
}

// Remove drops the entry of a crew member that left the roster for good.
// Its log records stay so a replay restores it.
func (r *Registry) Remove(name string) {
	name, _ = SanitizeName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Entries returns every entry sorted by name.
func (r *Registry) Entries() []*Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b *Entry) int { return strings.Compare(a.name, b.name) })
	return entries
}

// Logbook returns a snapshot of the award log.
func (r *Registry) Logbook() []LogbookEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.logbook)
}

// Accomplished reports whether a must-be-first decoration was durably
// awarded to anyone.
func (r *Registry) Accomplished(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accomplished[code]
}

// Clear drops all state.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
}

func (r *Registry) clearLocked() {
	r.entries = map[string]*Entry{}
	r.logbook = nil
	r.accomplished = map[string]bool{}
	r.transaction = map[string]bool{}
	r.inTx = false
	r.txTime = 0
}

// BeginTransaction opens an award batch stamped with the current game time.
func (r *Registry) BeginTransaction() {
	r.BeginTransactionAt(r.now())
}

// BeginTransactionAt opens an award batch stamped with t. A batch that was
// not ended is discarded.
func (r *Registry) BeginTransactionAt(t float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inTx {
		r.logger.Debug("discarding unfinished award transaction", zap.Int("decorations", len(r.transaction)))
	}
	r.transaction = map[string]bool{}
	r.inTx = true
	r.txTime = t
	r.logger.Debug("begin award transaction", zap.Float64("time", t))
}

// EndTransaction closes the batch and marks its decorations accomplished.
func (r *Registry) EndTransaction() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code := range r.transaction {
		r.accomplished[code] = true
	}
	r.transaction = map[string]bool{}
	r.inTx = false
	r.txTime = 0
	r.logger.Debug("end award transaction")
}

func (r *Registry) stamp() float64 {
	if r.inTx {
		return r.txTime
	}
	return r.now()
}

func (r *Registry) appendLocked(e *Entry, l LogbookEntry) {
	r.logbook = append(r.logbook, l)
	if e != nil {
		e.addLog(l)
	}
}

// Award records ribbon for the subject named name. It fails without error
// when the subject already has it or a must-be-first decoration was already
// accomplished before the open transaction.
func (r *Registry) Award(name string, ribbon *decoration.Ribbon) bool {
	if ribbon == nil {
		return false
	}
	e := r.GetOrCreate(name)
	d := ribbon.Decoration()

	r.mu.Lock()
	blocked := d.MustBeFirst() && r.accomplished[d.Code()]
	t := r.stamp()
	r.mu.Unlock()
	if blocked {
		r.markTransaction(d.Code())
		r.logger.Debug("first ribbon already accomplished", zap.String("code", d.Code()), zap.String("subject", e.name))
		return false
	}

	ok := e.Award(ribbon, func() { r.evaluator.OnAward(d, e, r) })
	r.markTransaction(d.Code())
	if !ok {
		return false
	}

	r.mu.Lock()
	r.appendLocked(e, LogbookEntry{Time: t, Code: ribbon.Code(), Name: e.name})
	if !r.inTx {
		r.accomplished[d.Code()] = true
	}
	r.mu.Unlock()

	r.logger.Log(r.awardLevel, "ribbon awarded",
		zap.String("ribbon", ribbon.Name()),
		zap.String("code", ribbon.Code()),
		zap.String("subject", e.name),
		zap.Float64("time", t))
	return true
}

func (r *Registry) markTransaction(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inTx {
		r.transaction[code] = true
	}
}

// AwardCode awards the ribbon registered under code.
func (r *Registry) AwardCode(name, code string) bool {
	ribbon, ok := r.catalog.Lookup(code)
	if !ok {
		r.logger.Warn("no ribbon for code", zap.String("code", code), zap.String("subject", name))
		return false
	}
	return r.Award(name, ribbon)
}

// Record applies a life-cycle action and logs it when it takes effect.
func (r *Registry) Record(name string, a *action.Action, data string) bool {
	e := r.GetOrCreate(name)
	t := r.now()
	if !a.Apply(t, &e.Counters, data) {
		r.logger.Debug("action not applicable", zap.String("code", a.Code()), zap.String("subject", e.name))
		return false
	}
	r.mu.Lock()
	r.appendLocked(e, LogbookEntry{Time: t, Code: a.Code(), Name: e.name, Data: data})
	r.mu.Unlock()
	return true
}

// RecordCustomRibbon logs the current name and description of a custom
// ribbon so a replay restores them.
func (r *Registry) RecordCustomRibbon(c *decoration.Custom) {
	l := LogbookEntry{
		Time: r.now(),
		Code: DataChangePrefix + strconv.Itoa(c.Index()),
		Name: r.sanitize(c.Name()),
		Data: c.Description(),
	}
	r.mu.Lock()
	r.appendLocked(nil, l)
	r.mu.Unlock()
}

// Revoke removes ribbon from the subject and drops its log records. With
// cascade, the chain ribbon supersedes is revoked too.
func (r *Registry) Revoke(name string, ribbon *decoration.Ribbon, cascade bool) bool {
	e, ok := r.Entry(name)
	if !ok {
		r.logger.Warn("no hall of fame entry for revocation", zap.String("subject", name))
		return false
	}
	if !e.Revoke(ribbon) {
		return false
	}
	r.mu.Lock()
	r.logbook = slices.DeleteFunc(r.logbook, func(l LogbookEntry) bool {
		return l.Name == e.Name() && l.Code == ribbon.Code()
	})
	e.dropLog(ribbon.Code())
	r.mu.Unlock()

	if cascade {
		for s := ribbon.Supersedes(); s != nil; s = s.Supersedes() {
			r.Revoke(name, s, true)
		}
	}
	r.logger.Debug("ribbon revoked", zap.String("code", ribbon.Code()), zap.String("subject", name))
	return true
}

// RevokeCode revokes the ribbon registered under code.
func (r *Registry) RevokeCode(name, code string, cascade bool) bool {
	ribbon, ok := r.catalog.Lookup(code)
	if !ok {
		r.logger.Warn("no ribbon for code", zap.String("code", code), zap.String("subject", name))
		return false
	}
	return r.Revoke(name, ribbon, cascade)
}

// RibbonsOfLatestMission walks the subject's log back to the last launch
// or recovery and returns the ribbons awarded since, skipping ribbons a
// later one supersedes.
func (r *Registry) RibbonsOfLatestMission(name string) []*decoration.Ribbon {
	e, ok := r.Entry(name)
	if !ok {
		return nil
	}
	var result []*decoration.Ribbon
	ignored := map[string]bool{}
	log := e.Logbook()
	for i := len(log) - 1; i >= 0; i-- {
		code := log[i].Code
		if code == action.CodeLaunch || code == action.CodeRecover {
			break
		}
		ribbon, ok := r.catalog.Lookup(code)
		if !ok || ignored[code] {
			continue
		}
		result = append(result, ribbon)
		for s := ribbon; s != nil; s = s.Supersedes() {
			ignored[s.Code()] = true
		}
	}
	return result
}
