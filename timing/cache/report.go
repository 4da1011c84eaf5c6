package cache

import (
	"fmt"
	"io"
)

// WriteReport prints this level's statistics followed recursively by
// every lower level's, in the format spec.md §6 specifies.
func (l *Level) WriteReport(w io.Writer) {
	fmt.Fprintf(w, "%s Cache:\n", l.Name)
	fmt.Fprintf(w, "-------- STATISTICS ----------\n")
	fmt.Fprintf(w, "Num Read: %d\n", l.stats.NumRead)
	fmt.Fprintf(w, "Num Write: %d\n", l.stats.NumWrite)
	fmt.Fprintf(w, "Num Hit: %d\n", l.stats.NumHit)
	fmt.Fprintf(w, "Num Miss: %d\n", l.stats.NumMiss)
	fmt.Fprintf(w, "Total Cycles: %d\n", l.stats.TotalCycles)

	if l.lower != nil {
		fmt.Fprintf(w, "---------- LOWER CACHE ----------\n")
		l.lower.WriteReport(w)
	}
}
