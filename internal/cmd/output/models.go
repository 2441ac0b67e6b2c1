package output

import (
	"io"

	"github.com/agentstation/lucro/internal/cmd/globals"
	"github.com/agentstation/lucro/internal/cmd/table"
	"github.com/agentstation/lucro/internal/prices"
	"github.com/agentstation/lucro/pkg/catalogs"
)

// isTable reports whether the flags ask for a table rendering.
func isTable(globalFlags *globals.Flags) bool {
	switch Format(globalFlags.Output) {
	case FormatTable, FormatWide, "":
		return true
	default:
		return false
	}
}

// FormatMatches writes search matches in the requested format.
func FormatMatches(w io.Writer, matches []catalogs.Match, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))

	var outputData any = matches
	if isTable(globalFlags) {
		outputData = table.MatchesToTableData(matches, globalFlags.Output == string(FormatWide) || globalFlags.Verbose)
	}
	return formatter.Format(w, outputData)
}

// FormatPrices writes current price rows in the requested format.
func FormatPrices(w io.Writer, rows []prices.Price, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))

	var outputData any = rows
	if isTable(globalFlags) {
		outputData = table.PricesToTableData(rows, globalFlags.Output == string(FormatWide) || globalFlags.Verbose)
	}
	return formatter.Format(w, outputData)
}

// FormatHistory writes price history in the requested format.
func FormatHistory(w io.Writer, history []prices.History, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))

	var outputData any = history
	if isTable(globalFlags) {
		outputData = table.HistoryToTableData(history)
	}
	return formatter.Format(w, outputData)
}

// FormatAny formats data that has no dedicated table conversion.
func FormatAny(w io.Writer, data any, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))
	return formatter.Format(w, data)
}
