package introspect

import (
	"reflect"
	"strings"
	"unsafe"
)

// Record is a marker for declared-immutable record types. A struct that
// embeds Record exposes its components only through same-named zero-argument
// reader methods; no setter or field discovery runs for it.
//
//	type Point struct {
//		introspect.Record
//		x, y int
//	}
//
//	func (p Point) X() int { return p.x }
//	func (p Point) Y() int { return p.y }
type Record struct{}

var recordMarkerType = reflect.TypeOf(Record{})

// Method describes one callable enumerated from a type's member surface.
// Params and Results exclude the receiver. Path is the embedded-field index
// path from the described type to the declaring owner; it is empty for
// methods in the type's own method set.
type Method struct {
	Name    string
	Params  []reflect.Type
	Results []reflect.Type
	Func    reflect.Value
	Owner   reflect.Type
	Path    []int
}

// Field describes one named struct field, including fields promoted from
// embedded structs. Index is the path for reflect field navigation.
type Field struct {
	Name     string
	Type     reflect.Type
	Index    []int
	ReadOnly bool
	Exported bool
}

// Constructor is a zero-argument construction path. It returns a pointer to
// a fresh instance of the constructed type.
type Constructor func() any

// Inspector is the type-description collaborator the metadata builder
// consumes. The default implementation is backed by the reflect package; a
// code-generation backed implementation can be injected instead via
// WithInspector without changing the builder's algorithm.
type Inspector interface {
	// Methods enumerates the full member surface of t: the type's own
	// method set plus methods declared on every embedded struct and
	// interface ancestor, de-duplicated by signature.
	Methods(t reflect.Type) []Method

	// Fields enumerates named fields of t and its embedded struct
	// ancestors, the type's own fields first so they shadow promoted ones.
	Fields(t reflect.Type) []Field

	// IsRecord reports whether t is a declared-immutable record kind.
	IsRecord(t reflect.Type) bool

	// Constructor returns the zero-argument construction path for t, if
	// one exists.
	Constructor(t reflect.Type) (Constructor, bool)

	// CanBypassVisibility reports whether member visibility restrictions
	// can be overridden in the current execution environment.
	CanBypassVisibility() bool
}

// NewInspector returns the default reflection-backed Inspector.
func NewInspector() Inspector {
	return reflectInspector{}
}

type reflectInspector struct{}

func (reflectInspector) Methods(t reflect.Type) []Method {
	t = baseType(t)
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []Method
	collectMethods(t, nil, seen, &out)
	return out
}

// collectMethods walks t's method set and recurses into embedded ancestors.
// A method already seen under the same signature is an override or a
// promoted duplicate and is collapsed to the first entry; a same-named
// method with a different signature stays as a distinct candidate.
func collectMethods(t reflect.Type, path []int, seen map[string]struct{}, out *[]Method) {
	surface := t
	if t.Kind() != reflect.Interface {
		// The pointer method set covers both value and pointer receivers.
		surface = reflect.PointerTo(t)
	}
	for i := 0; i < surface.NumMethod(); i++ {
		m := surface.Method(i)
		params, results := splitSignature(m.Type, t.Kind() != reflect.Interface)
		sig := methodSignature(m.Name, params, results)
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		*out = append(*out, Method{
			Name:    m.Name,
			Params:  params,
			Results: results,
			Func:    m.Func,
			Owner:   t,
			Path:    append([]int(nil), path...),
		})
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := baseType(f.Type)
		if ft == recordMarkerType {
			continue
		}
		if ft.Kind() == reflect.Struct || ft.Kind() == reflect.Interface {
			collectMethods(ft, append(path, i), seen, out)
		}
	}
}

// splitSignature extracts parameter and result types from a method's func
// type, dropping the receiver argument for concrete types.
func splitSignature(ft reflect.Type, hasReceiver bool) (params, results []reflect.Type) {
	start := 0
	if hasReceiver {
		start = 1
	}
	for i := start; i < ft.NumIn(); i++ {
		params = append(params, ft.In(i))
	}
	for i := 0; i < ft.NumOut(); i++ {
		results = append(results, ft.Out(i))
	}
	return params, results
}

// methodSignature builds the de-duplication key: results, name, then ordered
// parameters. Keying on the result types lets methods that differ only in
// return type coexist as distinct candidates.
func methodSignature(name string, params, results []reflect.Type) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(r.String())
	}
	sb.WriteByte('#')
	sb.WriteString(name)
	for i, p := range params {
		if i == 0 {
			sb.WriteByte(':')
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

func (reflectInspector) Fields(t reflect.Type) []Field {
	t = baseType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var out []Field
	collectFields(t, nil, &out)
	return out
}

// collectFields emits t's own named fields first, then recurses into
// embedded structs so shallower declarations shadow deeper ones.
func collectFields(t reflect.Type, path []int, out *[]Field) {
	var embedded []int
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			embedded = append(embedded, i)
			continue
		}
		tag := f.Tag.Get("introspect")
		if tag == "-" {
			continue
		}
		index := append(append([]int(nil), path...), i)
		*out = append(*out, Field{
			Name:     f.Name,
			Type:     f.Type,
			Index:    index,
			ReadOnly: tag == "readonly",
			Exported: f.IsExported(),
		})
	}
	for _, i := range embedded {
		ft := baseType(t.Field(i).Type)
		if ft == recordMarkerType || ft.Kind() != reflect.Struct {
			continue
		}
		collectFields(ft, append(path, i), out)
	}
}

func (reflectInspector) IsRecord(t reflect.Type) bool {
	t = baseType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == recordMarkerType {
			return true
		}
	}
	return false
}

func (reflectInspector) Constructor(t reflect.Type) (Constructor, bool) {
	t = baseType(t)
	if t == nil {
		return nil, false
	}
	switch t.Kind() {
	case reflect.Invalid, reflect.Interface, reflect.Func:
		// No zero-argument construction path produces a usable bare
		// instance for these kinds.
		return nil, false
	}
	return func() any {
		return reflect.New(t).Interface()
	}, true
}

func (reflectInspector) CanBypassVisibility() bool {
	type probe struct {
		hidden int
	}
	ok := false
	func() {
		defer func() { _ = recover() }()
		f := reflect.ValueOf(&probe{}).Elem().Field(0)
		reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem().SetInt(1)
		ok = true
	}()
	return ok
}
