package introspect

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeMetadata is the complete resolved property model for one concrete
// type: readable and writable property names, per-property invokers and
// declared types, the default constructor when one exists, and a
// case-insensitive name index. Instances are immutable once built and safe
// to share across goroutines.
type TypeMetadata struct {
	ownerType   reflect.Type
	readable    []string
	writable    []string
	getters     map[string]Invoker
	setters     map[string]Invoker
	getterTypes map[string]reflect.Type
	setterTypes map[string]reflect.Type
	constructor Constructor
	caseMap     map[string]string
}

// buildTypeMetadata discovers the property model of t through the injected
// inspector. Conflicting member shapes degrade to ambiguous accessors rather
// than failing the build, so a type with one bad property stays usable.
func buildTypeMetadata(t reflect.Type, insp Inspector) *TypeMetadata {
	tm := &TypeMetadata{
		ownerType:   t,
		getters:     make(map[string]Invoker),
		setters:     make(map[string]Invoker),
		getterTypes: make(map[string]reflect.Type),
		setterTypes: make(map[string]reflect.Type),
		caseMap:     make(map[string]string),
	}
	if c, ok := insp.Constructor(t); ok {
		tm.constructor = c
	}
	methods := insp.Methods(t)
	if insp.IsRecord(t) {
		tm.addRecordGetMethods(methods)
	} else {
		tm.addGetMethods(methods)
		tm.addSetMethods(methods)
		tm.addFields(insp.Fields(t))
	}
	for _, name := range tm.readable {
		tm.caseMap[strings.ToUpper(name)] = name
	}
	for _, name := range tm.writable {
		tm.caseMap[strings.ToUpper(name)] = name
	}
	return tm
}

// getterShape reports whether m is accessor-shaped for reads: no parameters
// and a single result, optionally with a trailing error.
func getterShape(m Method) bool {
	if len(m.Params) != 0 {
		return false
	}
	if len(m.Results) == 1 {
		return true
	}
	return len(m.Results) == 2 && isErrorResult(m.Results[1])
}

// setterShape reports whether m is accessor-shaped for writes: exactly one
// parameter. Results are not constrained so fluent setters qualify.
func setterShape(m Method) bool {
	return len(m.Params) == 1
}

// conflictGroups buckets accessor candidates by property name, preserving
// discovery order.
type conflictGroups struct {
	order  []string
	byName map[string][]Method
}

func newConflictGroups() *conflictGroups {
	return &conflictGroups{byName: make(map[string][]Method)}
}

func (g *conflictGroups) add(name string, m Method) {
	if !isValidPropertyName(name) {
		return
	}
	if _, ok := g.byName[name]; !ok {
		g.order = append(g.order, name)
	}
	g.byName[name] = append(g.byName[name], m)
}

// addRecordGetMethods registers every accessor-shaped method of a record
// type as a getter under its verbatim method name. Record components are
// exempt from the Is/Get/Set prefix convention.
func (tm *TypeMetadata) addRecordGetMethods(methods []Method) {
	for _, m := range methods {
		if getterShape(m) {
			tm.addGetMethod(m.Name, m, false)
		}
	}
}

func (tm *TypeMetadata) addGetMethods(methods []Method) {
	conflicts := newConflictGroups()
	for _, m := range methods {
		if !getterShape(m) || !IsGetter(m.Name) {
			continue
		}
		name, err := PropertyName(m.Name)
		if err != nil {
			continue
		}
		conflicts.add(name, m)
	}
	tm.resolveGetterConflicts(conflicts)
}

// resolveGetterConflicts selects one winner per property by folding the
// candidates: a more specific (assignable) result type wins, equal boolean
// results prefer the Is-prefixed name, and equal non-boolean or unrelated
// result types mark the property ambiguous.
func (tm *TypeMetadata) resolveGetterConflicts(conflicts *conflictGroups) {
	for _, name := range conflicts.order {
		candidates := conflicts.byName[name]
		winner := candidates[0]
		ambiguous := false
		for _, candidate := range candidates[1:] {
			winnerType := winner.Results[0]
			candidateType := candidate.Results[0]
			if candidateType == winnerType {
				if candidateType.Kind() != reflect.Bool {
					ambiguous = true
					break
				}
				if strings.HasPrefix(candidate.Name, "Is") {
					winner = candidate
				}
			} else if winnerType.AssignableTo(candidateType) {
				// winner's result type is the more specific one, keep it
			} else if candidateType.AssignableTo(winnerType) {
				winner = candidate
			} else {
				ambiguous = true
				break
			}
		}
		tm.addGetMethod(name, winner, ambiguous)
	}
}

func (tm *TypeMetadata) addGetMethod(name string, m Method, ambiguous bool) {
	var inv Invoker
	if ambiguous {
		inv = &ambiguousInvoker{
			typ: m.Results[0],
			message: fmt.Sprintf("illegal overloaded getter with ambiguous type for property %q on %s",
				name, m.Owner),
		}
	} else {
		inv = &methodInvoker{method: m}
	}
	tm.putGetter(name, inv, normalizeType(m.Results[0]))
}

func (tm *TypeMetadata) addSetMethods(methods []Method) {
	conflicts := newConflictGroups()
	for _, m := range methods {
		if !setterShape(m) || !IsSetter(m.Name) {
			continue
		}
		name, err := PropertyName(m.Name)
		if err != nil {
			continue
		}
		conflicts.add(name, m)
	}
	tm.resolveSetterConflicts(conflicts)
}

// resolveSetterConflicts selects one setter per property. A setter whose
// parameter exactly matches the resolved getter type is the unconditional
// winner; otherwise candidates are folded pairwise, preferring the narrower
// parameter type and degrading to ambiguous when neither is assignable to
// the other.
func (tm *TypeMetadata) resolveSetterConflicts(conflicts *conflictGroups) {
	for _, name := range conflicts.order {
		setters := conflicts.byName[name]
		getterType := tm.getterTypes[name]
		_, getterAmbiguous := tm.getters[name].(*ambiguousInvoker)
		setterAmbiguous := false
		var match *Method
		for i := range setters {
			if !getterAmbiguous && setters[i].Params[0] == getterType {
				// exact match to the getter's resolved type is the best match
				match = &setters[i]
				break
			}
			if !setterAmbiguous {
				match = tm.pickBetterSetter(match, &setters[i], name)
				setterAmbiguous = match == nil
			}
		}
		if match != nil {
			tm.addSetMethod(name, *match)
		}
	}
}

func (tm *TypeMetadata) pickBetterSetter(setter1, setter2 *Method, property string) *Method {
	if setter1 == nil {
		return setter2
	}
	param1 := setter1.Params[0]
	param2 := setter2.Params[0]
	if param2.AssignableTo(param1) {
		return setter2
	}
	if param1.AssignableTo(param2) {
		return setter1
	}
	inv := &ambiguousInvoker{
		typ: param1,
		message: fmt.Sprintf("ambiguous setters for property %q on %s with types %s and %s",
			property, setter2.Owner, param1, param2),
	}
	// A best-effort type entry from the first ambiguous pair is still
	// recorded so type lookups keep working even though invocation fails.
	tm.putSetter(property, inv, normalizeType(param1))
	return nil
}

func (tm *TypeMetadata) addSetMethod(name string, m Method) {
	tm.putSetter(name, &methodInvoker{method: m, setter: true}, normalizeType(m.Params[0]))
}

// addFields registers field-backed accessors for every field whose name is
// not already claimed by a resolved method accessor. Read-only fields are
// never settable; every unclaimed field is readable.
func (tm *TypeMetadata) addFields(fields []Field) {
	for _, f := range fields {
		name := decapitalize(f.Name)
		if !isValidPropertyName(name) {
			continue
		}
		if _, claimed := tm.setters[name]; !claimed && !f.ReadOnly {
			tm.putSetter(name, &fieldInvoker{field: f, setter: true}, normalizeType(f.Type))
		}
		if _, claimed := tm.getters[name]; !claimed {
			tm.putGetter(name, &fieldInvoker{field: f}, normalizeType(f.Type))
		}
	}
}

func (tm *TypeMetadata) putGetter(name string, inv Invoker, typ reflect.Type) {
	if _, ok := tm.getters[name]; !ok {
		tm.readable = append(tm.readable, name)
	}
	tm.getters[name] = inv
	tm.getterTypes[name] = typ
}

func (tm *TypeMetadata) putSetter(name string, inv Invoker, typ reflect.Type) {
	if _, ok := tm.setters[name]; !ok {
		tm.writable = append(tm.writable, name)
	}
	tm.setters[name] = inv
	tm.setterTypes[name] = typ
}

// Type returns the type this metadata describes.
func (tm *TypeMetadata) Type() reflect.Type {
	return tm.ownerType
}

// ReadablePropertyNames returns the property names with a getter accessor,
// in discovery order. The returned slice is a copy.
func (tm *TypeMetadata) ReadablePropertyNames() []string {
	return append([]string(nil), tm.readable...)
}

// WritablePropertyNames returns the property names with a setter accessor,
// in discovery order. The returned slice is a copy.
func (tm *TypeMetadata) WritablePropertyNames() []string {
	return append([]string(nil), tm.writable...)
}

// HasGetter reports whether the type has a readable property by name.
func (tm *TypeMetadata) HasGetter(property string) bool {
	_, ok := tm.getters[property]
	return ok
}

// HasSetter reports whether the type has a writable property by name.
func (tm *TypeMetadata) HasSetter(property string) bool {
	_, ok := tm.setters[property]
	return ok
}

// GetInvoker returns the getter accessor for property.
func (tm *TypeMetadata) GetInvoker(property string) (Invoker, error) {
	inv, ok := tm.getters[property]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrNoGetter, property, tm.ownerType)
	}
	return inv, nil
}

// SetInvoker returns the setter accessor for property.
func (tm *TypeMetadata) SetInvoker(property string) (Invoker, error) {
	inv, ok := tm.setters[property]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrNoSetter, property, tm.ownerType)
	}
	return inv, nil
}

// GetterType returns the declared type of the property's getter.
func (tm *TypeMetadata) GetterType(property string) (reflect.Type, error) {
	typ, ok := tm.getterTypes[property]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrNoGetter, property, tm.ownerType)
	}
	return typ, nil
}

// SetterType returns the declared type of the property's setter. The getter
// and setter types of a property may legitimately differ and are tracked
// independently.
func (tm *TypeMetadata) SetterType(property string) (reflect.Type, error) {
	typ, ok := tm.setterTypes[property]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrNoSetter, property, tm.ownerType)
	}
	return typ, nil
}

// HasDefaultConstructor reports whether the type has a zero-argument
// construction path.
func (tm *TypeMetadata) HasDefaultConstructor() bool {
	return tm.constructor != nil
}

// DefaultConstructor returns the type's zero-argument construction path.
func (tm *TypeMetadata) DefaultConstructor() (Constructor, error) {
	if tm.constructor == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoDefaultConstructor, tm.ownerType)
	}
	return tm.constructor, nil
}

// FindPropertyName normalizes a case-insensitive property name to its
// canonical casing.
func (tm *TypeMetadata) FindPropertyName(name string) (string, bool) {
	canonical, ok := tm.caseMap[strings.ToUpper(name)]
	return canonical, ok
}
