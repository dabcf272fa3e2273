package loan_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/loan"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]loan.Status{
		"DIPINJAM":             loan.StatusBorrowed,
		" dipinjam ":           loan.StatusBorrowed,
		"DENDA":                loan.StatusFined,
		"TERLAMBAT":            loan.StatusFined,
		"SUDAH_DIKEMBALIKAN":   loan.StatusReturned,
		"DIKEMBALIKAN":         loan.StatusReturned,
		"MENUNGGU_PERSETUJUAN": loan.StatusAwaitingApproval,
		"PENDING":              loan.StatusPending,
		"SEDANG_DIPINJAM":      loan.StatusUnknown,
		"":                     loan.StatusUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, loan.ParseStatus(in), in)
	}
	for _, s := range loan.Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, loan.StatusUnknown.Valid())
	assert.False(t, loan.Status("TERLAMBAT").Valid())
}

func TestLoan_Denormalised(t *testing.T) {
	body := `{
		"id": 12, "bukuId": "b-1", "judulBuku": "Basis Data", "penulis": "Sutanta",
		"nama": "Ani", "nim": "2101001",
		"tanggalPinjam": "2024-01-10", "tanggalKembali": "2024-01-17T00:00:00",
		"statusBukuPinjaman": "DIPINJAM", "denda": 0
	}`
	var l loan.Loan
	require.NoError(t, json.Unmarshal([]byte(body), &l))

	assert.Equal(t, api.ID("12"), l.ID)
	assert.Equal(t, "Basis Data", l.Title())
	assert.Equal(t, "Sutanta", l.Author())
	name, nim := l.Borrower()
	assert.Equal(t, "Ani", name)
	assert.Equal(t, "2101001", nim)
	assert.Equal(t, "2024-01-17", l.DueDateString())
	assert.Equal(t, "2024-01-10", l.LoanDateString())
	assert.Equal(t, loan.StatusBorrowed, l.Status())
}

func TestLoan_NestedAndLegacy(t *testing.T) {
	l := loan.Loan{
		Book:         &catalog.Book{Title: "Jaringan Komputer", Author: "Tanenbaum"},
		Student:      &api.Student{Nama: "Budi", NIM: "2101002"},
		LegacyStatus: "SUDAH_DIKEMBALIKAN",
		DueDateField: "2024-02-01",
	}
	assert.Equal(t, "Jaringan Komputer", l.Title())
	assert.Equal(t, "Tanenbaum", l.Author())
	name, nim := l.Borrower()
	assert.Equal(t, "Budi", name)
	assert.Equal(t, "2101002", nim)
	assert.Equal(t, loan.StatusReturned, l.Status())
	assert.Equal(t, "2024-02-01", l.DueDateString())

	var empty loan.Loan
	assert.Equal(t, "Judul tidak tersedia", empty.Title())
	assert.Equal(t, "-", empty.Author())
	assert.Equal(t, "-", empty.DueDateString())
	name, nim = empty.Borrower()
	assert.Equal(t, "-", name)
	assert.Equal(t, "-", nim)
}

func TestFormatFine(t *testing.T) {
	assert.Equal(t, "-", loan.FormatFine(0))
	assert.Equal(t, "Rp 500", loan.FormatFine(500))
	assert.Equal(t, "Rp 15.000", loan.FormatFine(15000))
	assert.Equal(t, "Rp 1.250.000", loan.FormatFine(1250000))
}
