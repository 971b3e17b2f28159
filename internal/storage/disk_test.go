package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsageBytesSumsFilesAndDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "sub")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "b.txt"), make([]byte, 50), 0644); err != nil {
		t.Fatal(err)
	}

	loose := filepath.Join(t.TempDir(), "c.bin")
	if err := os.WriteFile(loose, make([]byte, 25), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := DiskUsageBytes(dir, loose)
	if err != nil {
		t.Fatal(err)
	}
	if got != 175 {
		t.Errorf("DiskUsageBytes = %d, want 175", got)
	}
}

func TestDiskUsageBytesSkipsMissingAndEmptyPaths(t *testing.T) {
	got, err := DiskUsageBytes("", filepath.Join(t.TempDir(), "nope.db"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("DiskUsageBytes = %d, want 0", got)
	}
}
