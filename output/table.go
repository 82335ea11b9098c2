package output

import (
	"strings"

	"github.com/pterm/pterm"
)

// TableString renders rows as a table; the first row is the header.
func TableString(rows [][]string) (string, error) {
	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Srender()
}

// Table prints rows as a table; the first row is the header.
func Table(rows [][]string) {
	s, err := TableString(rows)
	if err != nil {
		lines := make([]string, len(rows))
		for i, row := range rows {
			lines[i] = strings.Join(row, "\t")
		}
		s = strings.Join(lines, "\n")
	}
	emit(strings.TrimRight(s, "\n"))
}
