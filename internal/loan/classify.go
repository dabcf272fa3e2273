package loan

import (
	"strings"
	"time"
)

// Classifier buckets loans for display. It never changes a loan; lateness
// is derived from the due date on every call.
type Classifier struct {
	// Lenient treats any status containing "PINJAM" as active instead of
	// requiring the exact DIPINJAM value.
	Lenient bool
}

// IsLate reports whether due lies before now. Dates without a time of day
// parse as local midnight, so a loan turns late during its due day. A zero
// due date is never late.
func IsLate(due, now time.Time) bool {
	if due.IsZero() {
		return false
	}
	return due.Before(now)
}

// IsActive reports whether the book is still out on this loan.
func (c Classifier) IsActive(l Loan) bool {
	if c.Lenient {
		return strings.Contains(strings.ToUpper(l.RawStatus()), "PINJAM")
	}
	return l.Status() == StatusBorrowed
}

// IsCompleted is the complement of IsActive.
func (c Classifier) IsCompleted(l Loan) bool { return !c.IsActive(l) }

// IsOverdueActive reports whether l is active and past its due date.
func (c Classifier) IsOverdueActive(l Loan, now time.Time) bool {
	if !c.IsActive(l) {
		return false
	}
	due, ok := l.DueDate()
	return ok && IsLate(due, now)
}

// Buckets is a display partition of a loan list. Active and Completed
// partition the input; Overdue is a subset of Active and Unknown a subset
// of Completed.
type Buckets struct {
	Active    []Loan
	Overdue   []Loan
	Completed []Loan
	Unknown   []Loan
}

// Classify splits loans into buckets as of now.
func (c Classifier) Classify(loans []Loan, now time.Time) Buckets {
	var b Buckets
	for _, l := range loans {
		if c.IsActive(l) {
			b.Active = append(b.Active, l)
			if c.IsOverdueActive(l, now) {
				b.Overdue = append(b.Overdue, l)
			}
			continue
		}
		b.Completed = append(b.Completed, l)
		if l.Status() == StatusUnknown {
			b.Unknown = append(b.Unknown, l)
		}
	}
	return b
}

// Tone is the notification/badge colour class.
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
)

// Badge is a status label with its tone.
type Badge struct {
	Label string
	Tone  Tone
}

// OverdueLabel marks an active loan past its due date.
const OverdueLabel = "TERLAMBAT"

// Badge returns the display badge for l as of now.
func (c Classifier) Badge(l Loan, now time.Time) Badge {
	if c.IsOverdueActive(l, now) {
		return Badge{Label: OverdueLabel, Tone: ToneDanger}
	}
	st := l.Status()
	switch st {
	case StatusReturned:
		return Badge{Label: string(st), Tone: ToneSuccess}
	case StatusPending, StatusAwaitingApproval:
		return Badge{Label: string(st), Tone: ToneWarning}
	case StatusFined:
		return Badge{Label: string(st), Tone: ToneDanger}
	case StatusBorrowed:
		return Badge{Label: string(st), Tone: ToneInfo}
	}
	label := strings.TrimSpace(l.RawStatus())
	if label == "" {
		label = "-"
	}
	return Badge{Label: label, Tone: ToneInfo}
}

// PendingReturns selects loans waiting for an admin to approve their return.
func PendingReturns(loans []Loan) []Loan {
	var out []Loan
	for _, l := range loans {
		switch l.Status() {
		case StatusAwaitingApproval, StatusPending:
			out = append(out, l)
		}
	}
	return out
}

// Summary is the borrower dashboard tally.
type Summary struct {
	Total     int
	Active    int
	Overdue   int
	Completed int
	Fines     int
}

// Summarize counts loans by bucket and sums fines of fined loans.
func (c Classifier) Summarize(loans []Loan, now time.Time) Summary {
	b := c.Classify(loans, now)
	s := Summary{
		Total:     len(loans),
		Active:    len(b.Active),
		Overdue:   len(b.Overdue),
		Completed: len(b.Completed),
	}
	for _, l := range loans {
		if l.Status() == StatusFined {
			s.Fines += l.Fine
		}
	}
	return s
}
