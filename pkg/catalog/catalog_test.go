package catalog

import (
	"testing"

	"cogentcore.org/core/math32"
)

func TestDefaultHasFourTypes(t *testing.T) {
	c := Default()
	want := []string{"1x1", "2x1", "3x1", "base"}
	got := c.Types()
	if len(got) != len(want) {
		t.Fatalf("Types() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Types()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLookupMissIsNotFatal(t *testing.T) {
	c := Default()
	if _, ok := c.Lookup("9x9"); ok {
		t.Error("Lookup of unknown type should miss")
	}
	if _, ok := c.Lookup(""); ok {
		t.Error("Lookup of empty type should miss")
	}
}

func TestBaseSocketGrid(t *testing.T) {
	c := Default()
	base, ok := c.Lookup(Base)
	if !ok {
		t.Fatal("no base type")
	}
	if base.SocketCount() != 16 {
		t.Fatalf("base socket count = %d, want 16", base.SocketCount())
	}

	// Socket k sits at column k mod 4, row k div 4.
	tests := []struct {
		id   int
		want math32.Vector3
	}{
		{0, math32.Vec3(-3, 1.2, -3)},
		{3, math32.Vec3(3, 1.2, -3)},
		{5, math32.Vec3(-1, 1.2, -1)},
		{10, math32.Vec3(1, 1.2, 1)},
		{12, math32.Vec3(-3, 1.2, 3)},
		{15, math32.Vec3(3, 1.2, 3)},
	}
	for _, tt := range tests {
		got, ok := base.SocketOffset(tt.id)
		if !ok {
			t.Fatalf("SocketOffset(%d) missing", tt.id)
		}
		if got != tt.want {
			t.Errorf("base socket %d = %v, want %v", tt.id, got, tt.want)
		}
	}

	// The base only ever has children, so every socket is top.
	for id := 0; id < base.SocketCount(); id++ {
		if !base.IsTop(id) {
			t.Errorf("base socket %d should be top", id)
		}
	}
}

func TestRowBrickSockets(t *testing.T) {
	c := Default()
	tests := []struct {
		typeID  string
		id      int
		wantOff math32.Vector3
		wantTop bool
	}{
		{"3x1", 0, math32.Vec3(-2, 1.2, 0), true},
		{"3x1", 1, math32.Vec3(0, 1.2, 0), true},
		{"3x1", 2, math32.Vec3(2, 1.2, 0), true},
		{"3x1", 3, math32.Vec3(-2, -1.2, 0), false},
		{"3x1", 4, math32.Vec3(0, -1.2, 0), false},
		{"3x1", 5, math32.Vec3(2, -1.2, 0), false},
		{"2x1", 0, math32.Vec3(-1, 1.2, 0), true},
		{"2x1", 1, math32.Vec3(1, 1.2, 0), true},
		{"2x1", 2, math32.Vec3(-1, -1.2, 0), false},
		{"2x1", 3, math32.Vec3(1, -1.2, 0), false},
		{"1x1", 0, math32.Vec3(0, 1.2, 0), true},
		{"1x1", 1, math32.Vec3(0, -1.2, 0), false},
	}
	for _, tt := range tests {
		bt, ok := c.Lookup(tt.typeID)
		if !ok {
			t.Fatalf("missing type %q", tt.typeID)
		}
		got, ok := bt.SocketOffset(tt.id)
		if !ok {
			t.Fatalf("%s socket %d missing", tt.typeID, tt.id)
		}
		if got != tt.wantOff {
			t.Errorf("%s socket %d = %v, want %v", tt.typeID, tt.id, got, tt.wantOff)
		}
		if bt.IsTop(tt.id) != tt.wantTop {
			t.Errorf("%s socket %d top = %v, want %v", tt.typeID, tt.id, bt.IsTop(tt.id), tt.wantTop)
		}
	}
}

func TestSocketOffsetOutOfRange(t *testing.T) {
	c := Default()
	bt, _ := c.Lookup("1x1")
	if _, ok := bt.SocketOffset(-1); ok {
		t.Error("negative socket id should miss")
	}
	if _, ok := bt.SocketOffset(2); ok {
		t.Error("socket id past layout should miss")
	}
	if bt.IsTop(99) {
		t.Error("out-of-range socket must not be top")
	}
}

func TestBrickSizes(t *testing.T) {
	c := Default()
	tests := []struct {
		typeID string
		want   math32.Vector3
	}{
		{"base", math32.Vec3(8, 2.4, 8)},
		{"3x1", math32.Vec3(6, 2.4, 2)},
		{"2x1", math32.Vec3(4, 2.4, 2)},
		{"1x1", math32.Vec3(2, 2.4, 2)},
	}
	for _, tt := range tests {
		bt, ok := c.Lookup(tt.typeID)
		if !ok {
			t.Fatalf("missing type %q", tt.typeID)
		}
		if bt.Size != tt.want {
			t.Errorf("%s size = %v, want %v", tt.typeID, bt.Size, tt.want)
		}
	}
}

func TestRegisterReplaces(t *testing.T) {
	c := New()
	c.Register(&BrickType{ID: "slab"})
	c.Register(&BrickType{ID: "slab", Size: math32.Vec3(4, 1.2, 4)})
	bt, ok := c.Lookup("slab")
	if !ok {
		t.Fatal("registered type missing")
	}
	if bt.Size.X != 4 {
		t.Error("Register should replace an existing type")
	}
}
