package cache

import "github.com/matzehuels/gridpack/pkg/grid"

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The HTTP API scopes keys per client namespace so that two dashboards that
// happen to use the same widget ids do not share cached layouts.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ns:team-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutsKey generates a prefixed layouts key.
func (k *ScopedKeyer) LayoutsKey(widgets []grid.Widget) string {
	return k.prefix + k.inner.LayoutsKey(widgets)
}
