package introspect

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Registry is the process-scoped type metadata cache. Metadata for a type is
// built lazily on first lookup and, while caching is enabled, at most once:
// concurrent lookups for the same uncached type converge on a single build
// and share its result. Lookups for different types never block each other
// on an in-progress build.
//
// A Registry is created explicitly and passed by reference by whatever
// top-level context owns it; there is no implicit global instance.
type Registry struct {
	mu        sync.RWMutex
	metadata  map[reflect.Type]*TypeMetadata
	group     singleflight.Group
	cache     bool
	inspector Inspector
	logger    *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithCacheDisabled turns metadata caching off. Every lookup then rebuilds
// from scratch and returns an independent instance, which is useful in
// environments with dynamically reloaded types. Callers must not assume
// referential stability across lookups in this mode.
func WithCacheDisabled() Option {
	return func(r *Registry) { r.cache = false }
}

// WithLogger sets the structured logger used for build diagnostics. The
// default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithInspector injects an alternative type-description collaborator, for
// example one backed by generated code instead of runtime reflection.
func WithInspector(inspector Inspector) Option {
	return func(r *Registry) { r.inspector = inspector }
}

// NewRegistry creates a type metadata registry with caching enabled.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		metadata:  make(map[reflect.Type]*TypeMetadata),
		cache:     true,
		inspector: NewInspector(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CacheEnabled reports whether metadata instances are retained across
// lookups.
func (r *Registry) CacheEnabled() bool {
	return r.cache
}

// CanBypassVisibility reports whether member-level visibility restrictions
// can be overridden in the current execution environment. This is a
// capability check, not a mutation.
func (r *Registry) CanBypassVisibility() bool {
	return r.inspector.CanBypassVisibility()
}

// MetadataOf returns the metadata for v's dynamic type.
func (r *Registry) MetadataOf(v any) (*TypeMetadata, error) {
	if v == nil {
		return nil, fmt.Errorf("cannot introspect nil value")
	}
	return r.MetadataFor(reflect.TypeOf(v))
}

// MetadataFor returns the metadata for t, building it on first use. Pointer
// types resolve to their element type's metadata.
func (r *Registry) MetadataFor(t reflect.Type) (*TypeMetadata, error) {
	t = baseType(t)
	if t == nil {
		return nil, fmt.Errorf("cannot introspect nil type")
	}
	if !r.cache {
		return r.build(t), nil
	}

	r.mu.RLock()
	tm, ok := r.metadata[t]
	r.mu.RUnlock()
	if ok {
		return tm, nil
	}

	// The singleflight group serializes concurrent builds of the same type
	// into one execution whose result every waiting caller observes.
	v, _, _ := r.group.Do(typeKey(t), func() (any, error) {
		r.mu.RLock()
		tm, ok := r.metadata[t]
		r.mu.RUnlock()
		if ok {
			return tm, nil
		}
		tm = r.build(t)
		r.mu.Lock()
		r.metadata[t] = tm
		r.mu.Unlock()
		return tm, nil
	})
	return v.(*TypeMetadata), nil
}

func (r *Registry) build(t reflect.Type) *TypeMetadata {
	start := time.Now()
	tm := buildTypeMetadata(t, r.inspector)
	r.logger.Debug("built type metadata",
		zap.String("type", t.String()),
		zap.Int("readable", len(tm.readable)),
		zap.Int("writable", len(tm.writable)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return tm
}

// typeKey derives a singleflight key from the type's runtime identity.
// reflect.Type values are canonical pointers, so the pointer uniquely
// identifies the type even across identically named types.
func typeKey(t reflect.Type) string {
	return strconv.FormatUint(uint64(reflect.ValueOf(t).Pointer()), 16)
}
