package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/matzehuels/gridpack/pkg/grid"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutsKey identifies the column cache of a layout. The key depends
	// only on the set of widget ids, so it survives every rescale and move.
	LayoutsKey(widgets []grid.Widget) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutsKey hashes the sorted widget ids.
func (DefaultKeyer) LayoutsKey(widgets []grid.Widget) string {
	ids := make([]string, 0, len(widgets))
	for _, w := range widgets {
		ids = append(ids, w.ID)
	}
	slices.Sort(ids)
	// JSON keeps ids that contain separators distinct.
	data, _ := json.Marshal(ids)
	sum := sha256.Sum256(data)
	return "layouts:" + hex.EncodeToString(sum[:])
}
