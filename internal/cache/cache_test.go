package cache

import (
	"errors"
	"testing"

	"github.com/Faultbox/wireframe-uv/pkg/mesh"
)

func TestFingerprint(t *testing.T) {
	quad := mesh.NewQuad()
	base := Fingerprint(quad, 10, 3)

	if got := Fingerprint(mesh.NewQuad(), 10, 3); got != base {
		t.Errorf("same input gave %016x and %016x", base, got)
	}

	tests := []struct {
		name string
		key  Key
	}{
		{"cutoff", Fingerprint(quad, 11, 3)},
		{"channel", Fingerprint(quad, 10, 2)},
		{"other mesh", Fingerprint(mesh.NewTriangle(), 10, 3)},
	}
	for _, tt := range tests {
		if tt.key == base {
			t.Errorf("changing %s did not change the fingerprint", tt.name)
		}
	}

	moved := mesh.NewQuad()
	moved.Positions[2].Z = 0.5
	if Fingerprint(moved, 10, 3) == base {
		t.Error("moving a vertex did not change the fingerprint")
	}

	// Same indices split differently across submeshes.
	split := mesh.NewQuad()
	split.Submeshes = [][]int{split.Submeshes[0][:3], split.Submeshes[0][3:]}
	if Fingerprint(split, 10, 3) == base {
		t.Error("splitting submeshes did not change the fingerprint")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	key := Fingerprint(mesh.NewQuad(), 10, 3)
	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("Get on empty cache = %v, %v; want miss", ok, err)
	}

	want := &Entry{
		Components: 4,
		Data: [][4]float32{
			{1, 0, 0, 0},
			{1, 1, 0, 1},
			{0, 1, 1, 1},
			{0, 0, 1, 0},
		},
	}
	if err := c.Put(key, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Entries survive a reopen.
	c, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()

	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get after reopen = %v, %v; want hit", ok, err)
	}
	if got.Components != want.Components || len(got.Data) != len(want.Data) {
		t.Fatalf("got %d components, %d entries", got.Components, len(got.Data))
	}
	for v := range want.Data {
		if got.Data[v] != want.Data[v] {
			t.Errorf("vertex %d: got %v, want %v", v, got.Data[v], want.Data[v])
		}
	}
}

func TestCacheTwoComponents(t *testing.T) {
	c, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	entry := &Entry{Components: 2, Data: [][4]float32{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 0, 0}}}
	if err := c.Put(7, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(7)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	for v := range entry.Data {
		if got.Data[v] != entry.Data[v] {
			t.Errorf("vertex %d: got %v, want %v", v, got.Data[v], entry.Data[v])
		}
	}
}

func TestCacheClosed(t *testing.T) {
	c, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if _, _, err := c.Get(1); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}
	if err := c.Put(1, &Entry{Components: 2}); !errors.Is(err, ErrClosed) {
		t.Errorf("Put after Close = %v, want ErrClosed", err)
	}
}

func TestDecodeEntryCorrupt(t *testing.T) {
	valid := encodeEntry(&Entry{Components: 3, Data: [][4]float32{{1, 0, 1, 0}}})

	tests := []struct {
		name string
		val  []byte
	}{
		{"empty", nil},
		{"wrong version", append([]byte{9}, valid[1:]...)},
		{"zero components", []byte{entryVersion, 0, 0}},
		{"truncated", valid[:len(valid)-1]},
		{"missing count", []byte{entryVersion, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeEntry(tt.val); !errors.Is(err, ErrCorruptEntry) {
				t.Errorf("decodeEntry() = %v, want ErrCorruptEntry", err)
			}
		})
	}
}
