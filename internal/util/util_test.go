package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/blackwell-systems/perpusctl/internal/util"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "session.yml")

	if err := util.WriteFileAtomic(path, []byte("token: abc\n"), 0600, 0700); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "token: abc\n" {
		t.Errorf("content = %q, want %q", string(got), "token: abc\n")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestWriteFileAtomic_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	if err := util.WriteFileAtomic(path, []byte("old"), 0644, 0755); err != nil {
		t.Fatal(err)
	}
	if err := util.WriteFileAtomic(path, []byte("new"), 0644, 0755); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", string(got), "new")
	}
}

func TestWriteFileAtomic_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	if err := util.WriteFileAtomic(path, []byte("x"), 0600, 0700); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := fi.Mode().Perm(); perm&0077 != 0 {
		t.Errorf("session file is readable by others: %v", perm)
	}
}

func TestWriteFileAtomic_BadParent(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := util.WriteFileAtomic(filepath.Join(blocker, "out.yml"), []byte("x"), 0644, 0755); err == nil {
		t.Error("expected error when the parent is a file, got nil")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")
	if err := util.EnsureDir(nested, 0755); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	fi, err := os.Stat(nested)
	if err != nil {
		t.Fatalf("Stat after EnsureDir: %v", err)
	}
	if !fi.IsDir() {
		t.Error("EnsureDir path is not a directory")
	}
}

func TestInitColor_NoColorFlag(t *testing.T) {
	saved := color.NoColor
	defer func() { color.NoColor = saved }()

	color.NoColor = false
	util.InitColor(true)
	if !color.NoColor {
		t.Error("InitColor(true) left color enabled")
	}
}

func TestInitColor_NoColorEnv(t *testing.T) {
	saved := color.NoColor
	defer func() { color.NoColor = saved }()

	t.Setenv("NO_COLOR", "1")
	color.NoColor = false
	util.InitColor(false)
	if !color.NoColor {
		t.Error("NO_COLOR did not disable color")
	}
}

func TestInteractive_Disabled(t *testing.T) {
	if util.Interactive(true) {
		t.Error("Interactive(true) = true, want false")
	}
}
