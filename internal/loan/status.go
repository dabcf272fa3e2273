package loan

import "strings"

// Status is the closed set of loan states. Anything the server sends that is
// not listed parses to StatusUnknown.
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusBorrowed         Status = "DIPINJAM"
	StatusFined            Status = "DENDA"
	StatusReturned         Status = "SUDAH_DIKEMBALIKAN"
	StatusAwaitingApproval Status = "MENUNGGU_PERSETUJUAN"
	StatusUnknown          Status = "UNKNOWN"
)

// Statuses lists every known status, in lifecycle order.
var Statuses = []Status{StatusPending, StatusBorrowed, StatusAwaitingApproval, StatusFined, StatusReturned}

// ParseStatus maps a wire value onto a Status. Matching is exact after
// trimming and upper-casing; DIKEMBALIKAN and TERLAMBAT are accepted as
// legacy spellings.
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PENDING":
		return StatusPending
	case "DIPINJAM":
		return StatusBorrowed
	case "DENDA", "TERLAMBAT":
		return StatusFined
	case "SUDAH_DIKEMBALIKAN", "DIKEMBALIKAN":
		return StatusReturned
	case "MENUNGGU_PERSETUJUAN":
		return StatusAwaitingApproval
	default:
		return StatusUnknown
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s != StatusUnknown && ParseStatus(string(s)) == s
}
