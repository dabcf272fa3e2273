package catalog

import (
	"strings"

	"github.com/blackwell-systems/perpusctl/internal/api"
)

// Availability is a book's availability as reported by the server.
type Availability string

const (
	Available   Availability = "TERSEDIA"
	Unavailable Availability = "TIDAK_TERSEDIA"
	Borrowed    Availability = "DIPINJAM"
	Booked      Availability = "BOOKED"
)

// IsAvailable reports whether a is the AVAILABLE state. Every other value,
// including unrecognised ones, counts as unavailable.
func (a Availability) IsAvailable() bool {
	return strings.EqualFold(strings.TrimSpace(string(a)), string(Available))
}

// Label is a short display form.
func (a Availability) Label() string {
	if a.IsAvailable() {
		return "available"
	}
	if a == "" {
		return "unknown"
	}
	return "unavailable"
}

// StatusRef is the nested status object on a book.
type StatusRef struct {
	ID     api.ID       `json:"id,omitempty" yaml:"-"`
	Status Availability `json:"statusBuku" yaml:"status"`
}

// Book is one catalog entry (buku).
type Book struct {
	ID           api.ID    `json:"id" yaml:"id"`
	Title        string    `json:"judulBuku" yaml:"title"`
	Author       string    `json:"penulis" yaml:"author,omitempty"`
	Publisher    string    `json:"penerbit" yaml:"publisher,omitempty"`
	Year         int       `json:"tahunTerbit,omitempty" yaml:"year,omitempty"`
	ISBN         string    `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	CategoryID   api.ID    `json:"kategoriId,omitempty" yaml:"category_id,omitempty"`
	CategoryName string    `json:"namaKategoriBuku,omitempty" yaml:"category,omitempty"`
	CopyCount    int       `json:"jumlahSalinan" yaml:"copies"`
	Description  string    `json:"deskripsi,omitempty" yaml:"description,omitempty"`
	Status       StatusRef `json:"statusBuku" yaml:"status"`

	// Shelf location, five optional parts.
	Floor       string `json:"lantai,omitempty" yaml:"floor,omitempty"`
	Room        string `json:"ruang,omitempty" yaml:"room,omitempty"`
	Shelf       string `json:"rak,omitempty" yaml:"shelf,omitempty"`
	ShelfNumber string `json:"nomorRak,omitempty" yaml:"shelf_number,omitempty"`
	Row         string `json:"nomorBaris,omitempty" yaml:"row,omitempty"`
	// LegacyLocation is the single-field location older records carry.
	LegacyLocation string `json:"lokasiRak,omitempty" yaml:"-"`

	CreatedAt string `json:"createdAt,omitempty" yaml:"-"`
	UpdatedAt string `json:"updatedAt,omitempty" yaml:"-"`
}

// NoLocation is shown when a book has no shelf location at all.
const NoLocation = "Lokasi tidak tersedia"

// Availability returns the server-reported availability.
func (b Book) Availability() Availability { return b.Status.Status }

// Location joins the non-empty location parts with " – ".
func (b Book) Location() string {
	var parts []string
	for _, p := range []string{b.Floor, b.Room, b.Shelf, b.ShelfNumber, b.Row} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " – ")
	}
	if l := strings.TrimSpace(b.LegacyLocation); l != "" {
		return l
	}
	return NoLocation
}

// LiveStatus is the per-book stock snapshot from the status endpoint.
type LiveStatus struct {
	BookID         api.ID       `json:"bukuId"`
	Status         Availability `json:"status"`
	TotalStock     int          `json:"totalStok"`
	AvailableStock int          `json:"stokTersedia"`
	BorrowedStock  int          `json:"stokDipinjam"`

	// Unknown is set only on AvailabilityUnknown, never by the server.
	Unknown bool `json:"-"`
}

// AvailabilityUnknown is what CheckAvailability returns when the live status
// could not be determined. Its zero stock blocks borrowing, while Unknown
// keeps it distinguishable from a real out-of-stock answer.
var AvailabilityUnknown = LiveStatus{Status: Available, Unknown: true}

// BookInput is the admin create/edit body. ID is only sent on edit.
type BookInput struct {
	ID          api.ID       `json:"id,omitempty"`
	Title       string       `json:"judulBuku"`
	Author      string       `json:"penulis"`
	Publisher   string       `json:"penerbit"`
	Year        int          `json:"tahunTerbit"`
	ISBN        string       `json:"isbn,omitempty"`
	CategoryID  api.ID       `json:"kategoriId,omitempty"`
	CopyCount   int          `json:"jumlahSalinan"`
	Description string       `json:"deskripsi,omitempty"`
	Floor       string       `json:"lantai,omitempty"`
	Room        string       `json:"ruang,omitempty"`
	Shelf       string       `json:"rak,omitempty"`
	ShelfNumber string       `json:"nomorRak,omitempty"`
	Row         string       `json:"nomorBaris,omitempty"`
	Status      Availability `json:"statusBuku,omitempty"`
}

// InputFrom seeds an edit body from an existing book.
func InputFrom(b Book) BookInput {
	return BookInput{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Publisher:   b.Publisher,
		Year:        b.Year,
		ISBN:        b.ISBN,
		CategoryID:  b.CategoryID,
		CopyCount:   b.CopyCount,
		Description: b.Description,
		Floor:       b.Floor,
		Room:        b.Room,
		Shelf:       b.Shelf,
		ShelfNumber: b.ShelfNumber,
		Row:         b.Row,
		Status:      b.Status.Status,
	}
}
