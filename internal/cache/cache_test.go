package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackwell-systems/perpusctl/internal/cache"
)

type category struct {
	ID   string `json:"id"`
	Nama string `json:"nama"`
}

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestPath_Layout(t *testing.T) {
	m := cache.New("/base")
	got := m.Path("categories")
	want := filepath.Join("/base", "categories.json")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestPath_FlattensSeparators(t *testing.T) {
	m := cache.New("/base")
	got := m.Path("../etc/passwd")
	if filepath.Dir(got) != "/base" {
		t.Errorf("Path() escaped the cache dir: %q", got)
	}
}

func TestExists_False(t *testing.T) {
	m := cache.New("/no/such/base")
	if m.Exists("categories") {
		t.Error("Exists() should be false for missing entry")
	}
}

func TestPutGet_Fresh(t *testing.T) {
	m := cache.New(t.TempDir())
	in := []category{{ID: "k1", Nama: "Informatika"}, {ID: "k2", Nama: "Sastra"}}

	if err := m.Put("categories", in, t0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !m.Exists("categories") {
		t.Error("Exists() false after Put")
	}

	var out []category
	ok, err := m.Get("categories", time.Hour, t0.Add(30*time.Minute), &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get() reported a miss for a fresh entry")
	}
	if len(out) != 2 || out[1].Nama != "Sastra" {
		t.Errorf("Get() = %+v", out)
	}
}

func TestGet_Stale(t *testing.T) {
	m := cache.New(t.TempDir())
	if err := m.Put("categories", []category{{ID: "k1"}}, t0); err != nil {
		t.Fatal(err)
	}
	var out []category
	ok, err := m.Get("categories", time.Hour, t0.Add(2*time.Hour), &out)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Get() returned a stale entry")
	}

	ok, _ = m.Get("categories", 0, t0.Add(48*time.Hour), &out)
	if !ok {
		t.Error("maxAge 0 should accept any age")
	}
}

func TestGet_Missing(t *testing.T) {
	m := cache.New(t.TempDir())
	var out []category
	ok, err := m.Get("nothing", time.Hour, t0, &out)
	if ok || err != nil {
		t.Errorf("Get() = %v, %v; want false, nil", ok, err)
	}
}

func TestGet_CorruptEntryDropped(t *testing.T) {
	dir := t.TempDir()
	m := cache.New(dir)
	if err := os.WriteFile(m.Path("categories"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	var out []category
	ok, err := m.Get("categories", time.Hour, t0, &out)
	if ok || err != nil {
		t.Errorf("Get() = %v, %v; want false, nil", ok, err)
	}
	if m.Exists("categories") {
		t.Error("corrupt entry should have been removed")
	}
}

func TestListAndClear(t *testing.T) {
	m := cache.New(t.TempDir())
	for _, k := range []string{"students", "categories"} {
		if err := m.Put(k, []string{"x"}, t0); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Key != "categories" {
		t.Fatalf("List() = %+v", entries)
	}
	if !entries[0].StoredAt.Equal(t0) {
		t.Errorf("StoredAt = %v, want %v", entries[0].StoredAt, t0)
	}

	n, err := m.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Clear() removed %d, want 2", n)
	}
	if entries, _ := m.List(); len(entries) != 0 {
		t.Errorf("List() after Clear = %+v", entries)
	}
}

func TestList_MissingDir(t *testing.T) {
	m := cache.New(filepath.Join(t.TempDir(), "never-created"))
	entries, err := m.List()
	if err != nil || len(entries) != 0 {
		t.Errorf("List() = %v, %v; want empty, nil", entries, err)
	}
}

func TestRemove_Missing(t *testing.T) {
	m := cache.New(t.TempDir())
	if err := m.Remove("nothing"); err != nil {
		t.Errorf("Remove() of missing entry: %v", err)
	}
}
