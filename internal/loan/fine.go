package loan

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idr = message.NewPrinter(language.Indonesian)

// FormatFine renders a fine in rupiah with Indonesian digit grouping,
// e.g. "Rp 15.000". Zero renders as "-".
func FormatFine(amount int) string {
	if amount <= 0 {
		return "-"
	}
	return idr.Sprintf("Rp %d", amount)
}
