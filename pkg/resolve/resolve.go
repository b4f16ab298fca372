// Package resolve reconstructs world-space brick placements from a flat
// record list. Placement is pure connectivity: starting from the base at the
// origin, a breadth-first walk over top-socket edges derives each brick's
// transform from its parent's, so the file never stores positions.
package resolve

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"

	"github.com/clutch3d/clutch/pkg/catalog"
	"github.com/clutch3d/clutch/pkg/structure"
)

// ErrMissingBase is returned when the record list has no brick with the
// base id and type. Without a root there is nothing to anchor the walk,
// so this is fatal rather than partial.
var ErrMissingBase = errors.New("structure has no base brick")

// UnknownTypeError is returned when the base brick's type is missing from
// the catalog. Unknown types elsewhere degrade to warnings.
type UnknownTypeError struct {
	TypeID string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown brick type %q", e.TypeID)
}

// Placed is one brick with its resolved world transform.
type Placed struct {
	ID       structure.ID
	Type     string
	Color    string
	Position math32.Vector3
	Rotation math32.Quat
}

// Sink receives placed bricks in traversal order. Streaming consumers can
// implement it directly; Resolve collects into a slice.
type Sink interface {
	Place(Placed)
}

// sinkFunc adapts a function to the Sink interface.
type sinkFunc func(Placed)

func (f sinkFunc) Place(p Placed) { f(p) }

// WarningCode classifies a non-fatal resolution problem.
type WarningCode int

const (
	// WarnUnknownType: a non-base brick's type is not in the catalog.
	WarnUnknownType WarningCode = iota
	// WarnDanglingRef: a socket references a brick id with no record.
	WarnDanglingRef
	// WarnMalformedSocket: a connected socket is missing its remote hole
	// or names a socket the type does not have.
	WarnMalformedSocket
)

func (c WarningCode) String() string {
	switch c {
	case WarnUnknownType:
		return "unknown-type"
	case WarnDanglingRef:
		return "dangling-ref"
	case WarnMalformedSocket:
		return "malformed-socket"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal problem found while resolving. The affected edge
// is skipped; the rest of the structure still resolves.
type Warning struct {
	Code    WarningCode
	BrickID structure.ID
	Message string
}

// Result is the output of a full resolution.
type Result struct {
	Bricks   []Placed
	Warnings []Warning
}

// up is the stacking axis. Socket orientations spin children about it.
var up = math32.Vec3(0, 1, 0)

// Resolve places every brick reachable from the base and collects the
// results. Problems on individual edges become warnings; only a missing
// or unknown-typed base is fatal.
func Resolve(records []structure.Record, cat *catalog.Catalog) (*Result, error) {
	res := &Result{}
	warnings, err := ResolveInto(records, cat, sinkFunc(func(p Placed) {
		res.Bricks = append(res.Bricks, p)
	}))
	if err != nil {
		return nil, err
	}
	res.Warnings = warnings
	return res, nil
}

// ResolveInto streams placed bricks to sink in breadth-first order.
// On a fatal error nothing is emitted.
func ResolveInto(records []structure.Record, cat *catalog.Catalog, sink Sink) ([]Warning, error) {
	return run(records, cat, sink)
}

// node is one entry of the traversal queue.
type node struct {
	id  structure.ID
	pos math32.Vector3
	rot math32.Quat
}

func run(records []structure.Record, cat *catalog.Catalog, sink Sink) ([]Warning, error) {
	idx := structure.Index(records)

	base, ok := idx[structure.BaseID]
	if !ok || base.Type != catalog.Base {
		return nil, fmt.Errorf("resolve: %w", ErrMissingBase)
	}
	if _, ok := cat.Lookup(base.Type); !ok {
		return nil, &UnknownTypeError{TypeID: base.Type}
	}

	var warnings []Warning
	warn := func(code WarningCode, id structure.ID, format string, args ...interface{}) {
		warnings = append(warnings, Warning{
			Code:    code,
			BrickID: id,
			Message: fmt.Sprintf(format, args...),
		})
	}

	visited := map[structure.ID]bool{base.ID: true}

	root := node{id: base.ID}
	root.rot.SetIdentity()
	sink.Place(Placed{ID: base.ID, Type: base.Type, Color: base.Color, Rotation: root.rot})

	queue := []node{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		rec := idx[cur.id]
		curType, _ := cat.Lookup(rec.Type)

		for _, sock := range rec.Sockets {
			// Only top sockets carry parent-to-child edges; the mirror
			// entry on the child's bottom socket is ignored.
			if !sock.Connected() || !curType.IsTop(sock.ID) {
				continue
			}
			if visited[sock.Brick] {
				continue
			}

			child, ok := idx[sock.Brick]
			if !ok {
				// Mark the missing id visited so a structure referencing
				// it from several sockets warns once.
				visited[sock.Brick] = true
				warn(WarnDanglingRef, sock.Brick,
					"socket %d of brick %s references missing brick %s", sock.ID, cur.id, sock.Brick)
				continue
			}
			childType, ok := cat.Lookup(child.Type)
			if !ok {
				visited[child.ID] = true
				warn(WarnUnknownType, child.ID,
					"brick %s has unknown type %q", child.ID, child.Type)
				continue
			}
			if sock.ConnectedToHole == nil {
				warn(WarnMalformedSocket, cur.id,
					"socket %d of brick %s is connected but names no remote socket", sock.ID, cur.id)
				continue
			}

			parentLocal, _ := curType.SocketOffset(sock.ID)
			childLocal, ok := childType.SocketOffset(*sock.ConnectedToHole)
			if !ok {
				warn(WarnMalformedSocket, cur.id,
					"socket %d of brick %s names socket %d, which type %q does not have",
					sock.ID, cur.id, *sock.ConnectedToHole, child.Type)
				continue
			}

			// The child's attachment socket must land on the parent's
			// socket world point.
			anchor := parentLocal.MulQuat(cur.rot).Add(cur.pos)
			rel := math32.NewQuatAxisAngle(up, math32.DegToRad(-sock.Orientation))
			rot := cur.rot.Mul(rel)
			pos := anchor.Sub(childLocal.MulQuat(rot))

			visited[child.ID] = true
			sink.Place(Placed{ID: child.ID, Type: child.Type, Color: child.Color, Position: pos, Rotation: rot})
			queue = append(queue, node{id: child.ID, pos: pos, rot: rot})
		}
	}

	return warnings, nil
}
