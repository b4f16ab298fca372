// Package scene turns resolved brick placements into triangle meshes using a
// geometry kernel. One mesh is produced per placed brick: the brick body plus
// a stud per top socket, with a shallow recess under each bottom socket so
// stacked bricks read correctly from below.
package scene

import (
	"fmt"
	"strings"

	"cogentcore.org/core/math32"

	"github.com/clutch3d/clutch/pkg/catalog"
	"github.com/clutch3d/clutch/pkg/kernel"
	"github.com/clutch3d/clutch/pkg/resolve"
)

// Stud and recess proportions, relative to the 2-unit stud cell.
const (
	studRadius   = 0.6
	studHeight   = 0.4
	recessRadius = 0.7
	recessDepth  = 0.4
)

// namedColors maps case-insensitive color names from structure data to the
// hex values the frontend materials use.
var namedColors = map[string]string{
	"white":  "#F2F3F3",
	"red":    "#C4281C",
	"blue":   "#0D69AC",
	"green":  "#287F46",
	"yellow": "#F5CD2F",
	"black":  "#1B2A34",
	"gray":   "#A3A2A4",
	"grey":   "#A3A2A4",
	"brown":  "#624732",
	"orange": "#DA8541",
}

// colorPalette assigns distinct fallback colors to bricks with no usable
// color name.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// ColorHex resolves a color name to a hex value. Unknown or empty names fall
// back to the palette, cycling on the given brick index.
func ColorHex(name string, index int) string {
	if hex, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]; ok {
		return hex
	}
	return colorPalette[index%len(colorPalette)]
}

// Yaw extracts the rotation angle about the vertical axis, in degrees.
// Structure rotations are yaw-only by construction, so the quaternion is
// always of the form (0, sin θ/2, 0, cos θ/2).
func Yaw(q math32.Quat) float32 {
	return math32.RadToDeg(2 * math32.Atan2(q.Y, q.W))
}

// Build produces one mesh per placed brick. Bricks whose type is missing
// from the catalog are skipped; the resolver has already warned about them.
func Build(placed []resolve.Placed, cat *catalog.Catalog, k kernel.Kernel) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(placed))
	for i, p := range placed {
		t, ok := cat.Lookup(p.Type)
		if !ok {
			continue
		}
		solid := brickSolid(k, t)
		solid = k.Rotate(solid, 0, float64(Yaw(p.Rotation)), 0)
		solid = k.Translate(solid, float64(p.Position.X), float64(p.Position.Y), float64(p.Position.Z))

		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("scene: mesh for brick %s: %w", p.ID, err)
		}
		mesh.BrickID = string(p.ID)
		mesh.Color = ColorHex(p.Color, i)
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// brickSolid assembles the local-frame solid for one brick type: body box,
// union of top studs, minus bottom recesses.
func brickSolid(k kernel.Kernel, t *catalog.BrickType) kernel.Solid {
	solid := k.Box(float64(t.Size.X), float64(t.Size.Y), float64(t.Size.Z))

	for id := 0; id < t.SocketCount(); id++ {
		off, _ := t.SocketOffset(id)
		if t.IsTop(id) {
			stud := k.Cylinder(studHeight, studRadius, 32)
			// Cylinders come out axis-along-Z; stand them up.
			stud = k.Rotate(stud, 90, 0, 0)
			stud = k.Translate(stud, float64(off.X), float64(off.Y)+studHeight/2, float64(off.Z))
			solid = k.Union(solid, stud)
		} else {
			recess := k.Cylinder(recessDepth, recessRadius, 32)
			recess = k.Rotate(recess, 90, 0, 0)
			recess = k.Translate(recess, float64(off.X), float64(off.Y)+recessDepth/2, float64(off.Z))
			solid = k.Difference(solid, recess)
		}
	}
	return solid
}
