package engine

import (
	"fmt"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/clutch3d/clutch/pkg/catalog"
	"github.com/clutch3d/clutch/pkg/structure"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Clutch Lisp source before passing it to
// zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal).
//     This avoids registering keyword symbols as globals, which would
//     conflict with user variables of the same name.
//
//  2. Lisp ; comments become zygomys // comments.
//
//  3. Kebab-case identifiers become underscore form (zygomys reads a
//     hyphen as subtraction).
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy double-quoted string literals untouched.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments (including ;; style) to //.
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword", preserving := assignment.
		if b[i] == ':' && i+1 < len(b) {
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Kebab-case: a hyphen between identifier characters is part of a
		// name, not a minus operator.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Builder state
// ---------------------------------------------------------------------------

// builder accumulates brick records during one evaluation. The base always
// takes id "1"; every other brick gets the next numeric id in creation
// order, so evaluation of the same source yields the same record list.
type builder struct {
	cat    *catalog.Catalog
	order  []structure.ID
	index  map[structure.ID]*structure.Record
	nextID int
}

func newBuilder(cat *catalog.Catalog) *builder {
	return &builder{
		cat:    cat,
		index:  make(map[structure.ID]*structure.Record),
		nextID: 2,
	}
}

// emptySockets builds the full socket slot list for a type, all
// disconnected.
func emptySockets(t *catalog.BrickType) []structure.SocketRef {
	sockets := make([]structure.SocketRef, t.SocketCount())
	for i := range sockets {
		sockets[i] = structure.SocketRef{ID: i, Brick: structure.Empty}
	}
	return sockets
}

// addBase creates the base record. A structure has exactly one.
func (b *builder) addBase(color string) (*structure.Record, error) {
	if _, exists := b.index[structure.BaseID]; exists {
		return nil, fmt.Errorf("structure already has a base")
	}
	t, ok := b.cat.Lookup(catalog.Base)
	if !ok {
		return nil, fmt.Errorf("catalog has no %q type", catalog.Base)
	}
	rec := &structure.Record{
		ID:      structure.BaseID,
		Type:    catalog.Base,
		Color:   color,
		Sockets: emptySockets(t),
	}
	b.order = append(b.order, rec.ID)
	b.index[rec.ID] = rec
	return rec, nil
}

// addBrick creates a non-base brick of the given type.
func (b *builder) addBrick(typeID, color string) (*structure.Record, error) {
	if typeID == catalog.Base {
		return nil, fmt.Errorf("use (base) for the base brick")
	}
	t, ok := b.cat.Lookup(typeID)
	if !ok {
		return nil, fmt.Errorf("unknown brick type %q", typeID)
	}
	rec := &structure.Record{
		ID:      structure.ID(strconv.Itoa(b.nextID)),
		Type:    typeID,
		Color:   color,
		Sockets: emptySockets(t),
	}
	b.nextID++
	b.order = append(b.order, rec.ID)
	b.index[rec.ID] = rec
	return rec, nil
}

// connect joins the parent's top socket s to the child's bottom socket t.
// Both sides of the connection are recorded, matching the JSON contract.
func (b *builder) connect(parentID structure.ID, s int, childID structure.ID, t int, orient float32) error {
	parent, ok := b.index[parentID]
	if !ok {
		return fmt.Errorf("no brick %s", parentID)
	}
	child, ok := b.index[childID]
	if !ok {
		return fmt.Errorf("no brick %s", childID)
	}
	pt, _ := b.cat.Lookup(parent.Type)
	ct, _ := b.cat.Lookup(child.Type)

	if s < 0 || s >= pt.SocketCount() {
		return fmt.Errorf("brick %s has no socket %d", parentID, s)
	}
	if !pt.IsTop(s) {
		return fmt.Errorf("socket %d of brick %s is not a top socket", s, parentID)
	}
	if t < 0 || t >= ct.SocketCount() {
		return fmt.Errorf("brick %s has no socket %d", childID, t)
	}
	if ct.IsTop(t) {
		return fmt.Errorf("socket %d of brick %s is a top socket; children attach by a bottom socket", t, childID)
	}
	if parent.Sockets[s].Connected() {
		return fmt.Errorf("socket %d of brick %s is already occupied", s, parentID)
	}
	if child.Sockets[t].Connected() {
		return fmt.Errorf("socket %d of brick %s is already occupied", t, childID)
	}

	hole := t
	parent.Sockets[s] = structure.SocketRef{
		ID:              s,
		Brick:           childID,
		ConnectedToHole: &hole,
		Orientation:     orient,
	}
	back := s
	child.Sockets[t] = structure.SocketRef{
		ID:              t,
		Brick:           parentID,
		ConnectedToHole: &back,
		Orientation:     orient,
	}
	return nil
}

// build returns the records in creation order.
func (b *builder) build() []structure.Record {
	records := make([]structure.Record, 0, len(b.order))
	for _, id := range b.order {
		records = append(records, *b.index[id])
	}
	return records
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpBrickRef wraps a brick id so it can be passed between builtins.
type sexpBrickRef struct {
	id     structure.ID
	typeID string
}

func (r *sexpBrickRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(brickref %s %s)", r.id, r.typeID)
}
func (r *sexpBrickRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer socket id from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBrickRef extracts a brick reference.
func toBrickRef(s zygo.Sexp) (*sexpBrickRef, error) {
	if r, ok := s.(*sexpBrickRef); ok {
		return r, nil
	}
	return nil, fmt.Errorf("expected brick reference, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the Clutch DSL builtins into a zygomys
// environment. The builtins populate b during evaluation.
//
// Source code must be preprocessed with preprocessSource() first so that
// :keyword tokens arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (base) / (base :color "gray")
	// -----------------------------------------------------------------------
	env.AddFunction("base", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		color := ""
		if v, ok := pa.kw["color"]; ok {
			c, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("base: color: %w", err)
			}
			color = c
		}
		rec, err := b.addBase(color)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("base: %w", err)
		}
		return &sexpBrickRef{id: rec.ID, typeID: rec.Type}, nil
	})

	// -----------------------------------------------------------------------
	// (brick "2x1" :color "red")
	// -----------------------------------------------------------------------
	env.AddFunction("brick", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("brick requires a type argument")
		}
		typeID, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("brick: type: %w", err)
		}
		color := ""
		if v, ok := pa.kw["color"]; ok {
			c, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("brick: color: %w", err)
			}
			color = c
		}
		rec, err := b.addBrick(typeID, color)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("brick: %w", err)
		}
		return &sexpBrickRef{id: rec.ID, typeID: rec.Type}, nil
	})

	// -----------------------------------------------------------------------
	// (stack parent 0 child 2 :orient 90)
	//
	// Connects socket 0 (top) of parent to socket 2 (bottom) of child,
	// optionally spinning the child about the vertical axis.
	// -----------------------------------------------------------------------
	env.AddFunction("stack", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 4 {
			return zygo.SexpNull, fmt.Errorf("stack requires parent, socket, child, socket")
		}
		parent, err := toBrickRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stack: parent: %w", err)
		}
		s, err := toInt(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stack: parent socket: %w", err)
		}
		child, err := toBrickRef(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stack: child: %w", err)
		}
		tt, err := toInt(pa.positional[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stack: child socket: %w", err)
		}
		orient := float32(0)
		if v, ok := pa.kw["orient"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("stack: orient: %w", err)
			}
			orient = float32(f)
		}
		if err := b.connect(parent.id, s, child.id, tt, orient); err != nil {
			return zygo.SexpNull, fmt.Errorf("stack: %w", err)
		}
		return child, nil
	})
}
