package main

import (
	"math"
	"strings"
	"testing"
)

// TestListStructures checks the bundled sample catalog. Names come back
// sorted with the .json suffix stripped.
func TestListStructures(t *testing.T) {
	app := NewApp()

	names := app.ListStructures()
	want := []string{"plaza", "staircase", "starter", "tower"}
	if len(names) != len(want) {
		t.Fatalf("got %d structures (%v), want %d", len(names), names, len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("structure %d = %q, want %q", i, names[i], want[i])
		}
	}
}

// TestE2ELoadStarter exercises the full pipeline for the simplest bundled
// structure: JSON → records → resolve → meshes. This is the same path the
// Wails LoadStructure binding takes, but without the Wails runtime.
func TestE2ELoadStarter(t *testing.T) {
	app := NewApp()

	result := app.LoadStructure("starter")
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) > 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(result.Meshes))
	}
	if len(result.Bricks) != 2 {
		t.Fatalf("expected 2 brick records, got %d", len(result.Bricks))
	}

	for _, m := range result.Meshes {
		if len(m.Vertices) == 0 || len(m.Normals) == 0 || len(m.Indices) == 0 {
			t.Errorf("mesh %q has empty geometry", m.BrickID)
		}
		if m.Color == "" {
			t.Errorf("mesh %q has no color", m.BrickID)
		}
	}

	// The base sits at the origin; the ids come back normalized to strings.
	base := result.Bricks[0]
	if base.ID != "1" || base.Type != "base" {
		t.Fatalf("first brick = %s/%s, want 1/base", base.ID, base.Type)
	}
	for _, c := range base.Position {
		if c != 0 {
			t.Errorf("base position = %v, want origin", base.Position)
		}
	}

	// Brick 56 sits on corner socket 0 of the base.
	child := result.Bricks[1]
	if child.ID != "56" {
		t.Fatalf("second brick id = %s, want 56", child.ID)
	}
	wantPos := [3]float32{-3, 2.4, -3}
	for i := range wantPos {
		if math.Abs(float64(child.Position[i]-wantPos[i])) > 1e-3 {
			t.Errorf("child position = %v, want %v", child.Position, wantPos)
			break
		}
	}
}

func TestE2ELoadTower(t *testing.T) {
	app := NewApp()

	result := app.LoadStructure("tower")
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 4 {
		t.Fatalf("expected 4 meshes, got %d", len(result.Meshes))
	}

	// Heights climb one plate per level.
	wantY := map[string]float32{"1": 0, "2": 2.4, "3": 4.8, "4": 7.2}
	for _, b := range result.Bricks {
		want, ok := wantY[b.ID]
		if !ok {
			t.Errorf("unexpected brick id %q", b.ID)
			continue
		}
		if math.Abs(float64(b.Position[1]-want)) > 1e-3 {
			t.Errorf("brick %s at height %v, want %v", b.ID, b.Position[1], want)
		}
	}
}

func TestLoadStructureUnknownName(t *testing.T) {
	app := NewApp()

	result := app.LoadStructure("no-such-structure")
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if !strings.Contains(result.Errors[0].Message, "no-such-structure") {
		t.Errorf("error should name the structure: %q", result.Errors[0].Message)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(result.Meshes))
	}
}

func TestLoadStructureJSONMalformed(t *testing.T) {
	app := NewApp()

	result := app.LoadStructureJSON("{not json")
	if len(result.Errors) == 0 {
		t.Fatal("expected a parse error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(result.Meshes))
	}
}

func TestLoadStructureJSONMissingBase(t *testing.T) {
	app := NewApp()

	// A record list with no base brick is fatal, never partial.
	data := `[
  {
    "id": 7,
    "type": "1x1",
    "color": "red",
    "sockets": [
      { "id": 0, "brick": -1 },
      { "id": 1, "brick": -1 }
    ]
  }
]`
	result := app.LoadStructureJSON(data)
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0].Message, "base") {
		t.Errorf("error should mention the base: %q", result.Errors[0].Message)
	}
	if len(result.Meshes) != 0 || len(result.Bricks) != 0 {
		t.Error("missing base must not produce partial results")
	}
}

func TestLoadStructureJSONDanglingIsPartial(t *testing.T) {
	app := NewApp()

	// A dangling reference degrades that edge to a warning; the rest of the
	// structure still renders.
	data := `[
  {
    "id": 1,
    "type": "base",
    "color": "gray",
    "sockets": [
      { "id": 0, "brick": 99, "connectedToHole": 1, "orientation": 0 },
      { "id": 1, "brick": -1 },
      { "id": 2, "brick": -1 },
      { "id": 3, "brick": -1 },
      { "id": 4, "brick": -1 },
      { "id": 5, "brick": -1 },
      { "id": 6, "brick": -1 },
      { "id": 7, "brick": -1 },
      { "id": 8, "brick": -1 },
      { "id": 9, "brick": -1 },
      { "id": 10, "brick": -1 },
      { "id": 11, "brick": -1 },
      { "id": 12, "brick": -1 },
      { "id": 13, "brick": -1 },
      { "id": 14, "brick": -1 },
      { "id": 15, "brick": -1 }
    ]
  }
]`
	result := app.LoadStructureJSON(data)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected the base mesh, got %d meshes", len(result.Meshes))
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(result.Warnings))
	}
	if result.Warnings[0].Code != "dangling-ref" {
		t.Errorf("warning code = %q, want dangling-ref", result.Warnings[0].Code)
	}
}

func TestE2EEvaluateScript(t *testing.T) {
	app := NewApp()

	source := `
;; one brick on the base, spun a quarter turn
(def b (base :color "gray"))
(def a (brick "2x1" :color "red"))
(stack b 0 a 2 :orient 90)
`
	result := app.EvaluateScript(source)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(result.Meshes))
	}
	if result.Bricks[1].Type != "2x1" {
		t.Errorf("second brick type = %q", result.Bricks[1].Type)
	}
}

func TestE2EEvaluateScriptSyntaxError(t *testing.T) {
	app := NewApp()

	result := app.EvaluateScript("(base")
	if len(result.Errors) == 0 {
		t.Fatal("expected a syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(result.Meshes))
	}
}

func TestE2EEvaluateScriptWithoutBase(t *testing.T) {
	app := NewApp()

	// Bricks without a base script fine but cannot resolve.
	result := app.EvaluateScript(`(brick "1x1" :color "red")`)
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0].Message, "base") {
		t.Errorf("error should mention the base: %q", result.Errors[0].Message)
	}
}

func TestReloadResetsSession(t *testing.T) {
	app := NewApp()

	app.LoadStructure("starter")
	if got := app.SelectBrick("56"); got != "selected" {
		t.Fatalf("select after load = %q, want selected", got)
	}
	app.LoadStructure("tower")
	if got := app.SessionState(); got != "idle" {
		t.Errorf("session after reload = %q, want idle", got)
	}
}
