package monitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMatchesDevice(t *testing.T) {
	cases := map[string]bool{
		"/dev/ttyUSB0":           true,
		"/dev/cu.usbserial-1410": true,
		"/dev/rfcomm0":           true,
		"/dev/sda1":              false,
		"/dev/null":              false,
	}
	for path, want := range cases {
		if got := matchesDevice(path); got != want {
			t.Fatalf("matchesDevice(%q) = %v want %v", path, got, want)
		}
	}
}

func TestWatchPorts_SignalsOnDeviceNodes(t *testing.T) {
	dir := t.TempDir()
	ch := make(chan struct{}, 1)
	stop, err := WatchPorts(dir, ch)
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ch:
		t.Fatalf("signalled for a non-device file")
	case <-time.After(4 * debounce):
	}

	for _, name := range []string{"ttyUSB0", "ttyUSB1"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("no signal after device nodes appeared")
	}
	select {
	case <-ch:
		t.Fatalf("burst was not collapsed")
	case <-time.After(4 * debounce):
	}
}

func TestWatchPorts_MissingDir(t *testing.T) {
	if _, err := WatchPorts(filepath.Join(t.TempDir(), "nope"), make(chan struct{}, 1)); err == nil {
		t.Fatalf("expected error")
	}
}
