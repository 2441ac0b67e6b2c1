// Package table converts lucro results into rows for terminal tables.
package table

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agentstation/lucro/internal/prices"
	"github.com/agentstation/lucro/pkg/catalogs"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// zeroDate is what upstream reports for a price that was never seen.
const zeroDate = "0001-01-01T00:00:00"

var printer = message.NewPrinter(language.English)

// MatchesToTableData converts search matches to table format.
func MatchesToTableData(matches []catalogs.Match, showDetails bool) Data {
	headers := []string{"ID", "Name", "Tier", "Category", "Match"}
	align := []Align{AlignLeft, AlignLeft, AlignCenter, AlignLeft, AlignRight}
	if showDetails {
		headers = append(headers, "English Name", "Subcategory", "Enchantment")
		align = append(align, AlignLeft, AlignLeft, AlignRight)
	}

	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		row := []string{
			m.ID,
			m.Name,
			m.Tier,
			orDash(m.CategoryName()),
			fmt.Sprintf("%d%%", m.Similarity),
		}
		if showDetails {
			row = append(row,
				orDash(m.NameEN),
				orDash(m.SubcategoryName()),
				fmt.Sprintf("%d", m.Enchantment),
			)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// PricesToTableData converts price rows to table format.
func PricesToTableData(rows []prices.Price, showDetails bool) Data {
	headers := []string{"City", "Quality", "Sell Min", "Buy Max"}
	align := []Align{AlignLeft, AlignCenter, AlignRight, AlignRight}
	if showDetails {
		headers = append(headers, "Sell Max", "Buy Min", "Sell Updated", "Buy Updated")
		align = append(align, AlignRight, AlignRight, AlignLeft, AlignLeft)
	}

	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		row := []string{
			p.City,
			QualityName(p.Quality),
			FormatSilver(p.SellPriceMin),
			FormatSilver(p.BuyPriceMax),
		}
		if showDetails {
			row = append(row,
				FormatSilver(p.SellPriceMax),
				FormatSilver(p.BuyPriceMin),
				FormatDate(p.SellPriceMinDate),
				FormatDate(p.BuyPriceMaxDate),
			)
		}
		out = append(out, row)
	}

	return Data{Headers: headers, Rows: out, ColumnAlignment: align}
}

// HistoryToTableData flattens price history into one row per bucket.
func HistoryToTableData(history []prices.History) Data {
	headers := []string{"City", "Quality", "Timestamp", "Sold", "Avg Price"}
	align := []Align{AlignLeft, AlignCenter, AlignLeft, AlignRight, AlignRight}

	var rows [][]string
	for _, h := range history {
		for _, point := range h.Data {
			rows = append(rows, []string{
				h.Location,
				QualityName(h.Quality),
				FormatDate(point.Timestamp),
				printer.Sprintf("%d", point.ItemCount),
				FormatSilver(point.AvgPrice),
			})
		}
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// FormatSilver renders an amount of silver with thousands separators, or
// "-" when no order was seen.
func FormatSilver(amount int64) string {
	if amount <= 0 {
		return "-"
	}
	return printer.Sprintf("%d", amount)
}

// FormatDate trims upstream timestamps to minutes, or "-" when unset.
func FormatDate(date string) string {
	if date == "" || date == zeroDate {
		return "-"
	}
	date = strings.Replace(date, "T", " ", 1)
	if len(date) > len("2006-01-02 15:04") {
		date = date[:len("2006-01-02 15:04")]
	}
	return date
}

// QualityName returns the in-game name of a quality level.
func QualityName(quality int) string {
	switch quality {
	case 1:
		return "Normal"
	case 2:
		return "Good"
	case 3:
		return "Outstanding"
	case 4:
		return "Excellent"
	case 5:
		return "Masterpiece"
	default:
		return "-"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
