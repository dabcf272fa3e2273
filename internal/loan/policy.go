package loan

import (
	"time"

	"github.com/blackwell-systems/perpusctl/internal/api"
)

// LoanPeriodDays is the fixed loan window in calendar days.
const LoanPeriodDays = 7

// DueDate returns loanDate plus the loan period, in calendar days.
func DueDate(loanDate time.Time) time.Time {
	return loanDate.AddDate(0, 0, LoanPeriodDays)
}

// CreateRequest is the create-loan body.
type CreateRequest struct {
	BookID   api.ID `json:"bukuId"`
	LoanDate string `json:"tanggalPinjam"`
	DueDate  string `json:"tanggalKembali"`
	Status   Status `json:"statusBukuPinjaman"`
	Fine     int    `json:"denda"`
}

// NewCreateRequest builds the body for borrowing bookID today. Both dates
// are taken in now's location.
func NewCreateRequest(bookID api.ID, now time.Time) CreateRequest {
	return CreateRequest{
		BookID:   bookID,
		LoanDate: FormatDate(now),
		DueDate:  FormatDate(DueDate(now)),
		Status:   StatusBorrowed,
		Fine:     0,
	}
}

// UpdateRequest is the admin edit body. Nil and empty fields are left as
// they are on the server.
type UpdateRequest struct {
	ReturnDate string  `json:"tanggalKembali,omitempty"`
	Status     Status  `json:"statusBukuPinjaman,omitempty"`
	Fine       *int    `json:"denda,omitempty"`
	Note       *string `json:"catatan,omitempty"`
}

// Empty reports whether u would change nothing.
func (u UpdateRequest) Empty() bool {
	return u.ReturnDate == "" && u.Status == "" && u.Fine == nil && u.Note == nil
}

// ForceReturnRequest closes a loan as returned today, bypassing the
// request/approve round trip.
func ForceReturnRequest(now time.Time) UpdateRequest {
	return UpdateRequest{
		ReturnDate: FormatDate(now),
		Status:     StatusReturned,
	}
}
