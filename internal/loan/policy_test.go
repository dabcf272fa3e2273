package loan_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/blackwell-systems/perpusctl/internal/loan"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation(loan.DateLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDueDate_SevenDays(t *testing.T) {
	cases := map[string]string{
		"2024-02-25": "2024-03-03", // leap year
		"2023-02-25": "2023-03-04",
		"2024-01-10": "2024-01-17",
		"2024-12-28": "2025-01-04",
		"2024-03-29": "2024-04-05",
	}
	for from, want := range cases {
		assert.Equal(t, want, loan.FormatDate(loan.DueDate(day(from))), "from %s", from)
	}
}

func TestNewCreateRequest_Fields(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 30, 0, 0, time.Local)
	req := loan.NewCreateRequest("b-1", now)

	assert.Equal(t, loan.CreateRequest{
		BookID:   "b-1",
		LoanDate: "2024-01-10",
		DueDate:  "2024-01-17",
		Status:   loan.StatusBorrowed,
		Fine:     0,
	}, req)
}

func TestUpdateRequest_Empty(t *testing.T) {
	assert.True(t, loan.UpdateRequest{}.Empty())
	zero := 0
	assert.False(t, loan.UpdateRequest{Fine: &zero}.Empty())

	fr := loan.ForceReturnRequest(day("2024-05-02"))
	assert.Equal(t, "2024-05-02", fr.ReturnDate)
	assert.Equal(t, loan.StatusReturned, fr.Status)
}
