package app

import (
	"fmt"
	"strings"
)

// HistoryReport renders the change log for debugging. The entry at the
// cursor is marked with '>', entries that can be redone with '+'.
func (p *Preferences) HistoryReport() string {
	h := p.history
	changes := h.Changes()
	position := h.Position()
	validPosition := h.ValidPosition()

	var b strings.Builder
	fmt.Fprintf(&b, "history: size=%d position=%d validPosition=%d\n", len(changes), position, validPosition)
	for i, c := range changes {
		marker := " "
		switch {
		case i == position:
			marker = ">"
		case i > position && i <= validPosition:
			marker = "+"
		}
		fmt.Fprintf(&b, "%s %3d %s\n", marker, i, c.Description())
	}
	return b.String()
}
