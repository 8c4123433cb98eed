// Package introspect provides a cached runtime property model over Go
// types, for generic data-binding code that reads and writes object
// properties purely by string name.
//
// # Overview
//
// For any type, the package discovers every property exposed through
// accessor-method pairs (GetName/SetName, IsActive) or raw struct fields,
// resolves naming and type conflicts deterministically, and exposes one
// uniform accessor interface so callers never care whether a property is
// backed by a method or a field. The resolved model is cached per type and
// built at most once, no matter how many goroutines race on the first
// lookup.
//
// # Example Usage
//
//	registry := introspect.NewRegistry()
//
//	meta, err := registry.MetadataOf(&User{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	setter, err := meta.SetInvoker("userName")
//	if err != nil {
//		log.Fatal(err)
//	}
//	u := &User{}
//	if err := setter.Set(u, "margaret"); err != nil {
//		log.Fatal(err)
//	}
//
//	getter, _ := meta.GetInvoker("userName")
//	name, _ := getter.Get(u) // "margaret"
//
// Property names are matched case-insensitively when normalized through
// TypeMetadata.FindPropertyName, so binding layers can accept USERNAME,
// UserName or username interchangeably.
//
// # Conflict Resolution
//
// Embedded types can surface several accessor candidates for one logical
// property. Resolution prefers the more specific result type for getters,
// the Is-prefixed name for equal boolean getters, and the setter whose
// parameter exactly matches the resolved getter type. Candidates with
// unrelated types mark the property ambiguous: the build still succeeds,
// and only invoking that specific accessor fails, with a diagnostic naming
// the conflicting signatures.
//
// # Records
//
// A struct embedding the Record marker is treated as a declared-immutable
// record: its zero-argument reader methods become its only properties, under
// their verbatim method names, and no setter or field discovery runs.
//
// # Concurrency
//
// Registry lookups are safe for concurrent use. TypeMetadata and Invoker
// values are immutable after construction and freely shared across
// goroutines.
package introspect
