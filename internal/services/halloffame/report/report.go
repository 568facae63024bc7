// Package report renders the hall of fame as localized text.
package report

import (
	"fmt"
	"io"

	"github.com/louisbranch/finalfrontier/internal/platform/i18n/catalog"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/ledger"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer resolves lang against the embedded catalogs. Unknown languages
// print in the base locale.
func Printer(lang string) (*message.Printer, language.Tag) {
	tag := catalog.Default().Match(lang)
	return message.NewPrinter(tag), tag
}

// Render writes every subject of registry with its counters and held
// ribbons, in name order.
func Render(w io.Writer, registry *ledger.Registry, lang string) error {
	p, _ := Printer(lang)
	entries := registry.Entries()
	book := registry.Logbook()
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, p.Sprintf("report.empty"))
		return err
	}

	if _, err := fmt.Fprintln(w, p.Sprintf("report.title", len(entries), len(book))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := renderEntry(w, p, e); err != nil {
			return err
		}
	}
	return nil
}

func renderEntry(w io.Writer, p *message.Printer, e *ledger.Entry) error {
	lines := []string{
		e.Name(),
		p.Sprintf("report.counters",
			e.MissionsFlown, e.TotalMissionTime, e.TotalEvaTime,
			e.Dockings, e.ContractsCompleted, e.Research),
	}
	ribbons := e.Ribbons()
	if len(ribbons) == 0 {
		lines = append(lines, p.Sprintf("report.no_ribbons"))
	} else {
		lines = append(lines, p.Sprintf("report.ribbons", len(ribbons)))
		for _, r := range ribbons {
			lines = append(lines, p.Sprintf("report.ribbon", r.Code(), r.Name(), r.Decoration().Prestige()))
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
