package introspect

import (
	"errors"
	"fmt"
)

// Populate copies values onto target's writable properties, matching keys
// against property names case-insensitively. Keys that resolve to no
// property, properties without a setter, and properties whose setter is
// ambiguous are skipped: one unusable property must not make the rest of the
// type unbindable. Target must be a pointer.
func Populate(r *Registry, target any, values map[string]any) error {
	tm, err := r.MetadataOf(target)
	if err != nil {
		return err
	}
	for key, value := range values {
		name, ok := tm.FindPropertyName(key)
		if !ok {
			continue
		}
		inv, err := tm.SetInvoker(name)
		if err != nil {
			continue
		}
		if err := inv.Set(target, value); err != nil {
			if errors.Is(err, ErrAmbiguousProperty) {
				continue
			}
			return fmt.Errorf("populate %s.%s: %w", tm.Type(), name, err)
		}
	}
	return nil
}

// Extract reads all readable properties of source into a map keyed by
// canonical property name. Ambiguous properties are skipped.
func Extract(r *Registry, source any) (map[string]any, error) {
	tm, err := r.MetadataOf(source)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(tm.readable))
	for _, name := range tm.ReadablePropertyNames() {
		inv, err := tm.GetInvoker(name)
		if err != nil {
			return nil, err
		}
		value, err := inv.Get(source)
		if err != nil {
			if errors.Is(err, ErrAmbiguousProperty) {
				continue
			}
			return nil, fmt.Errorf("extract %s.%s: %w", tm.Type(), name, err)
		}
		out[name] = value
	}
	return out, nil
}
