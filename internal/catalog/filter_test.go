package catalog_test

import (
	"testing"

	"github.com/blackwell-systems/perpusctl/internal/catalog"
)

var sample = []catalog.Book{
	{ID: "1", Title: "Algoritma dan Struktur Data", Author: "Rinaldi Munir", CategoryName: "Informatika", CopyCount: 3, Status: catalog.StatusRef{Status: catalog.Available}},
	{ID: "2", Title: "Kalkulus", Author: "Purcell", Publisher: "Erlangga", CategoryName: "Matematika", CopyCount: 0, Status: catalog.StatusRef{Status: catalog.Unavailable}},
	{ID: "3", Title: "Jaringan Komputer", Author: "Tanenbaum", ISBN: "978-0132126953", CategoryID: "k-7", CopyCount: 2, Status: catalog.StatusRef{Status: catalog.Borrowed}},
}

func TestFilter_Search(t *testing.T) {
	got := catalog.Filter{Search: "erlangga"}.Apply(sample)
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Search by publisher = %v, want book 2", got)
	}
	got = catalog.Filter{Search: "0132126953"}.Apply(sample)
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("Search by ISBN = %v, want book 3", got)
	}
}

func TestFilter_Category(t *testing.T) {
	if got := (catalog.Filter{Category: "informatika"}).Apply(sample); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("Category by name = %v, want book 1", got)
	}
	if got := (catalog.Filter{Category: "k-7"}).Apply(sample); len(got) != 1 || got[0].ID != "3" {
		t.Errorf("Category by id = %v, want book 3", got)
	}
}

func TestFilter_AvailableOnly(t *testing.T) {
	got := catalog.Filter{AvailableOnly: true}.Apply(sample)
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("AvailableOnly = %v, want only book 1", got)
	}
}

func TestFilter_Empty(t *testing.T) {
	if got := (catalog.Filter{}).Apply(sample); len(got) != len(sample) {
		t.Errorf("empty filter returned %d books, want %d", len(got), len(sample))
	}
}

func TestByID(t *testing.T) {
	if b := catalog.ByID(sample, "3"); b == nil || b.Title != "Jaringan Komputer" {
		t.Errorf("ByID(3) = %v", b)
	}
	if catalog.ByID(sample, "nope") != nil {
		t.Error("ByID should return nil for missing id")
	}
}

func TestMarshalParse_RoundTrip(t *testing.T) {
	data, err := catalog.Marshal(sample)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	books, err := catalog.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(books) != len(sample) {
		t.Fatalf("got %d books, want %d", len(books), len(sample))
	}
	if books[2].ISBN != sample[2].ISBN {
		t.Errorf("ISBN = %q, want %q", books[2].ISBN, sample[2].ISBN)
	}
}

func TestParse_Empty(t *testing.T) {
	books, err := catalog.Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if len(books) != 0 {
		t.Errorf("Parse(nil) = %d books, want 0", len(books))
	}
}
