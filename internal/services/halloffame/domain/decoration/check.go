package decoration

import (
	"fmt"

	"go.uber.org/zap"
)

// Evaluator runs decoration checks behind a recover boundary, so a failing
// rule reports "did not qualify" and evaluation of other rules continues.
type Evaluator struct {
	logger *zap.Logger
}

// NewEvaluator builds an evaluator. A nil logger is replaced by a no-op one.
func NewEvaluator(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger}
}

// VesselTransition runs the vessel check of d.
func (e *Evaluator) VesselTransition(d Decoration, previous, current *VesselState) (ok bool) {
	c, has := d.(VesselChecker)
	if !has {
		return false
	}
	defer e.recoverCheck(d, "vessel", &ok)
	return c.CheckVesselTransition(previous, current)
}

// SubjectSummary runs the summary check of d.
func (e *Evaluator) SubjectSummary(d Decoration, summary Summary) (ok bool) {
	c, has := d.(SummaryChecker)
	if !has {
		return false
	}
	defer e.recoverCheck(d, "summary", &ok)
	return c.CheckSubjectSummary(summary)
}

// EventReport runs the event report check of d.
func (e *Evaluator) EventReport(d Decoration, report EventReport) (ok bool) {
	c, has := d.(ReportChecker)
	if !has {
		return false
	}
	defer e.recoverCheck(d, "report", &ok)
	return c.CheckEventReport(report)
}

// Contract runs the contract check of d.
func (e *Evaluator) Contract(d Decoration, contract Contract) (ok bool) {
	c, has := d.(ContractChecker)
	if !has {
		return false
	}
	defer e.recoverCheck(d, "contract", &ok)
	return c.CheckContract(contract)
}

// ProgressMilestone runs the progress check of d.
func (e *Evaluator) ProgressMilestone(d Decoration, node ProgressNode) (ok bool) {
	c, has := d.(ProgressChecker)
	if !has {
		return false
	}
	defer e.recoverCheck(d, "progress", &ok)
	return c.CheckProgressMilestone(node)
}

// RosterTransition runs the roster check of d.
func (e *Evaluator) RosterTransition(d Decoration, crew Crew, oldStatus, newStatus RosterStatus) (ok bool) {
	c, has := d.(RosterChecker)
	if !has {
		return false
	}
	defer e.recoverCheck(d, "roster", &ok)
	return c.CheckRosterTransition(crew, oldStatus, newStatus)
}

// OnAward runs the award hook of d, if any.
func (e *Evaluator) OnAward(d Decoration, subject Subject, awarder Awarder) {
	h, has := d.(AwardHook)
	if !has {
		return
	}
	var ignored bool
	defer e.recoverCheck(d, "award hook", &ignored)
	h.OnAward(subject, awarder)
}

func (e *Evaluator) recoverCheck(d Decoration, kind string, ok *bool) {
	r := recover()
	if r == nil {
		return
	}
	*ok = false
	e.logger.Error("decoration check failed",
		zap.String("code", d.Code()),
		zap.String("check", kind),
		zap.String("panic", fmt.Sprint(r)),
	)
}
