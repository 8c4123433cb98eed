package introspect

// TypeDescription is a JSON-serializable snapshot of a type's resolved
// property model, intended for tooling and introspection endpoints.
type TypeDescription struct {
	Type                  string                `json:"type"`
	Readable              []PropertyDescription `json:"readable,omitempty"`
	Writable              []PropertyDescription `json:"writable,omitempty"`
	HasDefaultConstructor bool                  `json:"has_default_constructor"`
}

// PropertyDescription describes one property accessor: its canonical name,
// declared type and backing kind ("method", "field" or "ambiguous").
type PropertyDescription struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Kind string `json:"kind"`
}

// Description builds a serializable snapshot of the metadata. It is computed
// on demand and never stored, so mutating the result has no effect on the
// metadata itself.
func (tm *TypeMetadata) Description() TypeDescription {
	desc := TypeDescription{
		Type:                  tm.ownerType.String(),
		HasDefaultConstructor: tm.constructor != nil,
	}
	for _, name := range tm.readable {
		desc.Readable = append(desc.Readable, PropertyDescription{
			Name: name,
			Type: tm.getterTypes[name].String(),
			Kind: string(tm.getters[name].kind()),
		})
	}
	for _, name := range tm.writable {
		desc.Writable = append(desc.Writable, PropertyDescription{
			Name: name,
			Type: tm.setterTypes[name].String(),
			Kind: string(tm.setters[name].kind()),
		})
	}
	return desc
}
