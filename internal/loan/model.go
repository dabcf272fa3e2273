package loan

import (
	"strings"
	"time"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
)

// DateLayout is the wire format of every loan date.
const DateLayout = "2006-01-02"

// Loan is one borrowing record (peminjaman). The server denormalises book
// and borrower fields onto it; older responses nest them instead.
type Loan struct {
	ID        api.ID `json:"id"`
	BookID    api.ID `json:"bukuId,omitempty"`
	UserID    api.ID `json:"userId,omitempty"`
	StudentID api.ID `json:"mahasiswaId,omitempty"`

	BookTitle     string `json:"judulBuku,omitempty"`
	BookAuthor    string `json:"penulis,omitempty"`
	Publisher     string `json:"penerbit,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	CategoryName  string `json:"namaKategori,omitempty"`
	ShelfLocation string `json:"lokasiRak,omitempty"`

	BorrowerName string `json:"nama,omitempty"`
	NIM          string `json:"nim,omitempty"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`

	Book    *catalog.Book `json:"buku,omitempty"`
	Student *api.Student  `json:"mahasiswa,omitempty"`

	LoanDate string `json:"tanggalPinjam"`
	// ReturnDate holds the due date while the loan is open and the actual
	// return date once it is closed.
	ReturnDate   string `json:"tanggalKembali,omitempty"`
	DueDateField string `json:"tanggalHarusKembali,omitempty"`
	LoanStatus   string `json:"statusBukuPinjaman,omitempty"`
	LegacyStatus string `json:"status,omitempty"`
	Fine         int    `json:"denda"`
	Note         string `json:"catatan,omitempty"`
}

// RawStatus returns the status string as sent, preferring
// statusBukuPinjaman over the legacy status field.
func (l Loan) RawStatus() string {
	if l.LoanStatus != "" {
		return l.LoanStatus
	}
	return l.LegacyStatus
}

// Status returns the parsed status.
func (l Loan) Status() Status { return ParseStatus(l.RawStatus()) }

// DueDate returns the due date, preferring tanggalKembali over
// tanggalHarusKembali. ok is false when neither parses.
func (l Loan) DueDate() (due time.Time, ok bool) {
	for _, s := range []string{l.ReturnDate, l.DueDateField} {
		if t, err := ParseDate(s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DueDateString is the due date for display, or "-".
func (l Loan) DueDateString() string {
	if d, ok := l.DueDate(); ok {
		return FormatDate(d)
	}
	return "-"
}

// LoanDateString is the loan date for display, or "-".
func (l Loan) LoanDateString() string {
	if d, err := ParseDate(l.LoanDate); err == nil {
		return FormatDate(d)
	}
	return "-"
}

// Title returns the book title from whichever field carries it.
func (l Loan) Title() string {
	switch {
	case l.BookTitle != "":
		return l.BookTitle
	case l.Book != nil && l.Book.Title != "":
		return l.Book.Title
	}
	return "Judul tidak tersedia"
}

// Author returns the book author, or "-".
func (l Loan) Author() string {
	switch {
	case l.BookAuthor != "":
		return l.BookAuthor
	case l.Book != nil && l.Book.Author != "":
		return l.Book.Author
	}
	return "-"
}

// Borrower returns the borrower's name and student number.
func (l Loan) Borrower() (name, nim string) {
	name, nim = l.BorrowerName, l.NIM
	if l.Student != nil {
		if name == "" {
			name = l.Student.Nama
		}
		if nim == "" {
			nim = l.Student.NIM
		}
	}
	if name == "" {
		name = l.Username
	}
	if name == "" {
		name = "-"
	}
	if nim == "" {
		nim = "-"
	}
	return name, nim
}

// ParseDate parses a wire date in local time. Timestamps are accepted and
// truncated to their calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) >= len(DateLayout) {
		if t, err := time.ParseInLocation(DateLayout, s[:len(DateLayout)], time.Local); err == nil {
			return t, nil
		}
	}
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// FormatDate renders t as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }
