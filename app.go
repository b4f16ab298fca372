package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/clutch3d/clutch/pkg/catalog"
	"github.com/clutch3d/clutch/pkg/engine"
	"github.com/clutch3d/clutch/pkg/kernel"
	"github.com/clutch3d/clutch/pkg/kernel/sdfx"
	"github.com/clutch3d/clutch/pkg/resolve"
	"github.com/clutch3d/clutch/pkg/scene"
	"github.com/clutch3d/clutch/pkg/structure"
)

//go:embed assets/structures
var structures embed.FS

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx     context.Context
	logger  *log.Logger
	cat     *catalog.Catalog
	engine  *engine.Engine
	kernel  kernel.Kernel
	session *Session
}

// BrickData is the per-brick transform record sent to the frontend alongside
// the meshes, for picking and highlight.
type BrickData struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Color    string     `json:"color"`
	Position [3]float32 `json:"position"`
	Rotation [4]float32 `json:"rotation"` // quaternion x,y,z,w
}

// WarningData is a JSON-serializable resolution warning for the frontend.
type WarningData struct {
	Code    string `json:"code"`
	BrickID string `json:"brickId"`
	Message string `json:"message"`
}

// ErrorData is a JSON-serializable error for the frontend.
type ErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// SceneResult is the full result returned to the frontend.
type SceneResult struct {
	Meshes   []*kernel.Mesh `json:"meshes"`
	Bricks   []BrickData    `json:"bricks"`
	Warnings []WarningData  `json:"warnings"`
	Errors   []ErrorData    `json:"errors"`
}

// NewApp creates a new App with the default catalog and the sdfx kernel.
func NewApp() *App {
	cat := catalog.Default()
	return &App{
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
		}),
		cat:     cat,
		engine:  engine.NewEngine(cat),
		kernel:  sdfx.New(),
		session: NewSession(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// ListStructures returns the names of the bundled sample structures.
func (a *App) ListStructures() []string {
	entries, err := structures.ReadDir("assets/structures")
	if err != nil {
		a.logger.Error("list structures", "err", err)
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// LoadStructure resolves one of the bundled structures by name and returns
// its scene. Switching structures always re-runs the full resolution.
func (a *App) LoadStructure(name string) SceneResult {
	data, err := structures.ReadFile(path.Join("assets/structures", path.Base(name)+".json"))
	if err != nil {
		return errorResult(fmt.Errorf("no structure named %q", name))
	}
	return a.loadJSON(data)
}

// LoadStructureJSON resolves a structure supplied by the frontend as raw
// JSON (e.g. a file dropped onto the window).
func (a *App) LoadStructureJSON(data string) SceneResult {
	return a.loadJSON([]byte(data))
}

// EvaluateScript evaluates Lisp source into a structure and resolves it.
// This is the binding behind the script editor pane.
func (a *App) EvaluateScript(source string) SceneResult {
	records, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.logger.Error("evaluate script", "err", err)
		return errorResult(err)
	}
	if len(evalErrs) > 0 {
		result := emptyResult()
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, ErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	return a.buildScene(records)
}

func (a *App) loadJSON(data []byte) SceneResult {
	records, err := structure.Parse(data)
	if err != nil {
		return errorResult(err)
	}
	return a.buildScene(records)
}

// buildScene runs the resolve + mesh pipeline and packs the output for the
// frontend. Selection state from any previous structure is discarded.
func (a *App) buildScene(records []structure.Record) SceneResult {
	res, err := resolve.Resolve(records, a.cat)
	if err != nil {
		a.logger.Error("resolve structure", "err", err)
		return errorResult(err)
	}
	for _, w := range res.Warnings {
		a.logger.Warn("resolution warning", "code", w.Code.String(), "brick", string(w.BrickID), "msg", w.Message)
	}

	meshes, err := scene.Build(res.Bricks, a.cat, a.kernel)
	if err != nil {
		a.logger.Error("build scene", "err", err)
		return errorResult(err)
	}

	a.session.Cancel()

	result := emptyResult()
	result.Meshes = meshes
	for _, p := range res.Bricks {
		result.Bricks = append(result.Bricks, BrickData{
			ID:       string(p.ID),
			Type:     p.Type,
			Color:    p.Color,
			Position: [3]float32{p.Position.X, p.Position.Y, p.Position.Z},
			Rotation: [4]float32{p.Rotation.X, p.Rotation.Y, p.Rotation.Z, p.Rotation.W},
		})
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, WarningData{
			Code:    w.Code.String(),
			BrickID: string(w.BrickID),
			Message: w.Message,
		})
	}
	return result
}

func emptyResult() SceneResult {
	return SceneResult{
		Meshes:   []*kernel.Mesh{},
		Bricks:   []BrickData{},
		Warnings: []WarningData{},
		Errors:   []ErrorData{},
	}
}

func errorResult(err error) SceneResult {
	result := emptyResult()
	msg := err.Error()
	if errors.Is(err, resolve.ErrMissingBase) {
		msg = "structure has no base brick (id 1, type base)"
	}
	result.Errors = append(result.Errors, ErrorData{Message: msg})
	return result
}

// SelectBrick marks a brick as selected and returns the session state.
func (a *App) SelectBrick(id string) string {
	if err := a.session.Select(structure.ID(id)); err != nil {
		a.logger.Warn("select brick", "id", id, "err", err)
	}
	return a.session.State().String()
}

// CloneSelected starts placement of a copy of the selected brick.
func (a *App) CloneSelected() string {
	if err := a.session.Clone(); err != nil {
		a.logger.Warn("clone", "err", err)
	}
	return a.session.State().String()
}

// PlaceActive commits the brick currently being moved.
func (a *App) PlaceActive() string {
	if err := a.session.Place(); err != nil {
		a.logger.Warn("place", "err", err)
	}
	return a.session.State().String()
}

// CancelSession drops any selection or in-flight placement.
func (a *App) CancelSession() string {
	a.session.Cancel()
	return a.session.State().String()
}

// SessionState reports the current interaction state.
func (a *App) SessionState() string {
	return a.session.State().String()
}
