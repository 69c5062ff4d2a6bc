package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/gridpack/pkg/errors"
	"github.com/matzehuels/gridpack/pkg/grid"
)

// LoadLayouts reads a column cache stored by [StoreLayouts]. A miss returns
// nil with ok false. Undecodable entries are deleted and treated as a miss.
func LoadLayouts(ctx context.Context, c Cache, key string) (map[int][]grid.LayoutEntry, bool, error) {
	var data []byte
	var hit bool
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = c.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeCache, err, "load layouts")
	}
	if !hit {
		return nil, false, nil
	}

	var layouts map[int][]grid.LayoutEntry
	if err := json.Unmarshal(data, &layouts); err != nil {
		_ = c.Delete(ctx, key)
		return nil, false, nil
	}
	return layouts, true, nil
}

// StoreLayouts writes a column cache. Empty caches delete the entry.
func StoreLayouts(ctx context.Context, c Cache, key string, layouts map[int][]grid.LayoutEntry, ttl time.Duration) error {
	if len(layouts) == 0 {
		if err := c.Delete(ctx, key); err != nil {
			return errors.Wrap(errors.ErrCodeCache, err, "delete layouts")
		}
		return nil
	}
	data, err := json.Marshal(layouts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layouts")
	}
	err = RetryWithBackoff(ctx, func() error {
		return c.Set(ctx, key, data, ttl)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "store layouts")
	}
	return nil
}
