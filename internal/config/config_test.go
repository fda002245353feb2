package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if opts != Defaults() {
		t.Fatalf("opts = %+v, want defaults %+v", opts, Defaults())
	}
}

func TestLoadReadsOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	data := "debug: true\nstack_size: 4096\noutput: out.abrac\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !opts.Debug {
		t.Error("debug flag not read")
	}
	if opts.StackSize != 4096 {
		t.Errorf("stack size = %d, want 4096", opts.StackSize)
	}
	if opts.Output != "out.abrac" {
		t.Errorf("output = %q, want out.abrac", opts.Output)
	}
}

func TestLoadRepairsBadStackSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte("stack_size: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.StackSize != DefaultStackSize {
		t.Fatalf("stack size = %d, want the default %d", opts.StackSize, DefaultStackSize)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(":\n\t- nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml should error")
	}
}
