// Package catalog defines the brick type library: per-type dimensions and
// socket layouts in the brick's local frame. The local frame is
// origin-centered with +Y up, matching the geometry kernel's primitives.
package catalog

import (
	"sort"

	"cogentcore.org/core/math32"
)

// Grid constants. A stud cell is StudSpacing wide and a brick is one
// PlateHeight tall, so stacking moves a brick up by exactly one plate.
const (
	StudSpacing float32 = 2
	PlateHeight float32 = 2.4
)

// Base is the type id of the baseplate every structure is rooted on.
const Base = "base"

// Socket is one attachment point in a brick's local frame. Top sockets
// accept children; bottom sockets attach the brick to its parent.
type Socket struct {
	Offset math32.Vector3
	Top    bool
}

// BrickType describes one brick shape: its bounding size and its socket
// layout. Socket ids are indexes into Sockets.
type BrickType struct {
	ID      string
	Size    math32.Vector3
	Sockets []Socket
}

// SocketCount returns the number of socket slots the type has.
func (t *BrickType) SocketCount() int {
	return len(t.Sockets)
}

// SocketOffset returns the local-frame offset of the given socket.
// Out-of-range ids miss rather than panic; callers degrade them to
// warnings.
func (t *BrickType) SocketOffset(id int) (math32.Vector3, bool) {
	if id < 0 || id >= len(t.Sockets) {
		return math32.Vector3{}, false
	}
	return t.Sockets[id].Offset, true
}

// IsTop reports whether the socket is on the top face. Out-of-range ids
// are not top.
func (t *BrickType) IsTop(id int) bool {
	if id < 0 || id >= len(t.Sockets) {
		return false
	}
	return t.Sockets[id].Top
}

// Catalog is a registry of brick types keyed by type id.
type Catalog struct {
	types map[string]*BrickType
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{types: make(map[string]*BrickType)}
}

// Register adds a type, replacing any existing type with the same id.
func (c *Catalog) Register(t *BrickType) {
	c.types[t.ID] = t
}

// Lookup finds a type by id.
func (c *Catalog) Lookup(id string) (*BrickType, bool) {
	t, ok := c.types[id]
	return t, ok
}

// Types returns the registered type ids in sorted order.
func (c *Catalog) Types() []string {
	ids := make([]string, 0, len(c.types))
	for id := range c.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Default builds the standard catalog: the 4x4 baseplate and the 1x1,
// 2x1 and 3x1 row bricks.
func Default() *Catalog {
	c := New()
	c.Register(baseType())
	c.Register(rowType("3x1", 3))
	c.Register(rowType("2x1", 2))
	c.Register(rowType("1x1", 1))
	return c
}

// baseType lays out the baseplate: a 4x4 grid of top sockets, socket k at
// column k mod 4, row k div 4. The base is never a child, so it has no
// bottom sockets.
func baseType() *BrickType {
	const grid = 4
	t := &BrickType{
		ID:   Base,
		Size: math32.Vec3(grid*StudSpacing, PlateHeight, grid*StudSpacing),
	}
	for k := 0; k < grid*grid; k++ {
		col := float32(k % grid)
		row := float32(k / grid)
		t.Sockets = append(t.Sockets, Socket{
			Offset: math32.Vec3(
				(col-(grid-1)/2.0)*StudSpacing,
				PlateHeight/2,
				(row-(grid-1)/2.0)*StudSpacing,
			),
			Top: true,
		})
	}
	return t
}

// rowType lays out an n-cell row brick: top sockets 0..n-1 left to right,
// then the matching bottom sockets n..2n-1 in the same order.
func rowType(id string, n int) *BrickType {
	t := &BrickType{
		ID:   id,
		Size: math32.Vec3(float32(n)*StudSpacing, PlateHeight, StudSpacing),
	}
	x := func(i int) float32 {
		return (float32(i) - float32(n-1)/2) * StudSpacing
	}
	for i := 0; i < n; i++ {
		t.Sockets = append(t.Sockets, Socket{
			Offset: math32.Vec3(x(i), PlateHeight/2, 0),
			Top:    true,
		})
	}
	for i := 0; i < n; i++ {
		t.Sockets = append(t.Sockets, Socket{
			Offset: math32.Vec3(x(i), -PlateHeight/2, 0),
		})
	}
	return t
}
