package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gridpack/pkg/cache"
	"github.com/matzehuels/gridpack/pkg/errors"
	"github.com/matzehuels/gridpack/pkg/grid"
	"github.com/matzehuels/gridpack/pkg/observability"
)

// Runner executes layout operations with column-cache persistence.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// WithKeyer returns a copy of r that derives keys with k.
func (r *Runner) WithKeyer(k cache.Keyer) *Runner {
	cp := *r
	cp.Keyer = k
	return &cp
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Operations
// =============================================================================

// Compact packs the layout with [grid.Engine.Compact].
func (r *Runner) Compact(ctx context.Context, widgets []grid.Widget, opts Options) (*Result, error) {
	return r.run(ctx, OpCompact, widgets, opts, true, func(e *grid.Engine) error {
		e.Compact()
		return nil
	})
}

// Columns rescales the layout to co.To columns. The stored column cache,
// if any, restores placements the layout had at the target width before.
func (r *Runner) Columns(ctx context.Context, widgets []grid.Widget, opts Options, co ColumnsOptions) (*Result, error) {
	mode, err := co.Validate()
	if err != nil {
		return nil, err
	}
	return r.run(ctx, OpColumns, widgets, opts, false, func(e *grid.Engine) error {
		copts := grid.ColumnOpts{Mode: mode}
		if co.DOMOrder {
			for _, w := range widgets {
				if n := e.Node(w.ID); n != nil {
					copts.DOMOrder = append(copts.DOMOrder, n)
				}
			}
		}
		e.SetColumn(co.To, copts)
		return nil
	})
}

// ColumnsMany rescales several layouts concurrently. Results are returned
// in job order; the first failure cancels the remaining jobs.
func (r *Runner) ColumnsMany(ctx context.Context, jobs []Job, co ColumnsOptions) ([]*Result, error) {
	if _, err := co.Validate(); err != nil {
		return nil, err
	}
	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Columns(ctx, job.Widgets, job.Options, co)
			if err != nil {
				if job.Name == "" {
					return err
				}
				code := errors.GetCode(err)
				if code == "" {
					code = errors.ErrCodeInternal
				}
				return errors.Wrap(code, err, "%s", job.Name)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Check reports every invariant the layout breaks as stored, without
// normalizing it. The returned error is non-nil when violations exist;
// the result is returned either way.
func (r *Runner) Check(ctx context.Context, widgets []grid.Widget, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	hooks := observability.Layout()
	hooks.OnOperationStart(ctx, OpCheck, len(widgets))

	violations, err := errors.ValidateLayout(widgets, opts.Column, opts.MaxRow)
	row := 0
	for _, w := range widgets {
		row = max(row, w.Y+w.H)
	}
	res := &Result{
		Widgets:    widgets,
		Changed:    []string{},
		Row:        row,
		Column:     opts.Column,
		Violations: violations,
		Duration:   time.Since(start),
	}
	hooks.OnOperationComplete(ctx, OpCheck, 0, res.Duration, err)
	r.logger(opts).Info("checked layout",
		"widgets", len(widgets),
		"violations", len(violations),
		"duration", res.Duration)
	return res, err
}

// Add inserts w, auto-positioned when w.AutoPosition is set. It fails with
// OUT_OF_BOUNDS when a bounded grid has no room for it.
func (r *Runner) Add(ctx context.Context, widgets []grid.Widget, opts Options, w grid.Widget) (*Result, error) {
	if w.ID != "" {
		if err := errors.ValidateWidgetID(w.ID); err != nil {
			return nil, err
		}
	}
	if w.W < 0 || w.H < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "negative size %dx%d", w.W, w.H)
	}
	return r.run(ctx, OpAdd, widgets, opts, true, func(e *grid.Engine) error {
		if w.ID != "" && e.Node(w.ID) != nil {
			return errors.New(errors.ErrCodeInvalidInput, "widget %s already exists", w.ID)
		}
		if !e.WillItFit(w) {
			return errors.New(errors.ErrCodeOutOfBounds, "no room for a %dx%d widget in %d rows",
				max(w.W, 1), max(w.H, 1), e.MaxRow())
		}
		e.AddNode(w, true)
		return nil
	})
}

// Move places widget id at to, pushing others out of the way. Zero W or H
// keep the current size. A move the engine refuses, for example one that
// would grow a bounded grid past MaxRow, leaves the layout as it was and
// is reported with an empty Changed list.
func (r *Runner) Move(ctx context.Context, widgets []grid.Widget, opts Options, id string, to grid.Rect) (*Result, error) {
	return r.run(ctx, OpMove, widgets, opts, true, func(e *grid.Engine) error {
		n := e.Node(id)
		if n == nil {
			return errors.New(errors.ErrCodeWidgetNotFound, "widget %s not found", id)
		}
		if n.Locked {
			return errors.New(errors.ErrCodeInvalidInput, "widget %s is locked", id)
		}
		e.MoveNodeCheck(n, to)
		return nil
	})
}

// =============================================================================
// Execution
// =============================================================================

// run loads widgets into an engine, applies fn and saves the result. Edits
// (propagate set) are mirrored into the wider cached layouts; rescales
// maintain the cache themselves.
func (r *Runner) run(ctx context.Context, op string, widgets []grid.Widget, opts Options, propagate bool, fn func(*grid.Engine) error) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)
	start := time.Now()
	hooks := observability.Layout()
	hooks.OnOperationStart(ctx, op, len(widgets))

	res, err := r.exec(ctx, logger, widgets, opts, propagate, fn)
	changed := 0
	if res != nil {
		changed = len(res.Changed)
	}
	hooks.OnOperationComplete(ctx, op, changed, time.Since(start), err)
	if err != nil {
		logger.Debug("operation failed", "op", op, "error", err)
		return nil, err
	}

	res.Duration = time.Since(start)
	logger.Info("layout "+op,
		"widgets", len(res.Widgets),
		"changed", len(res.Changed),
		"column", res.Column,
		"cache_hit", res.CacheHit,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) exec(ctx context.Context, logger *log.Logger, widgets []grid.Widget, opts Options, propagate bool, fn func(*grid.Engine) error) (*Result, error) {
	e := grid.New(opts.GridOptions())

	hit := false
	switch {
	case opts.Layouts != nil:
		e.SetLayoutCache(opts.Layouts)
	case !opts.NoCache:
		hit = r.restore(ctx, logger, e, widgets)
	}

	e.Load(widgets, true)
	e.SaveInitial()
	if err := fn(e); err != nil {
		return nil, err
	}

	dirty := e.GetDirtyNodes(true)
	if propagate && len(dirty) > 0 {
		e.LayoutsNodesChange(dirty)
	}

	saved := e.Save(false)
	if !opts.NoCache {
		r.persist(ctx, logger, e, saved)
	}
	return &Result{
		Widgets:  saved,
		Changed:  changedIDs(dirty),
		Row:      e.GetRow(),
		Column:   e.Column(),
		CacheHit: hit,
		Layouts:  e.LayoutCache(),
	}, nil
}

// restore seeds e with the stored column cache. Cache failures only cost
// the round-trip memory, so they are logged and otherwise ignored.
func (r *Runner) restore(ctx context.Context, logger *log.Logger, e *grid.Engine, widgets []grid.Widget) bool {
	key := r.Keyer.LayoutsKey(widgets)
	layouts, ok, err := cache.LoadLayouts(ctx, r.Cache, key)
	if err != nil {
		logger.Warn("column cache unavailable", "key", key, "error", err)
		return false
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, "layouts")
		logger.Debug("column cache miss", "key", key)
		return false
	}
	observability.Cache().OnCacheHit(ctx, "layouts")
	logger.Debug("column cache hit", "key", key, "columns", len(layouts))
	e.SetLayoutCache(layouts)
	return true
}

func (r *Runner) persist(ctx context.Context, logger *log.Logger, e *grid.Engine, saved []grid.Widget) {
	key := r.Keyer.LayoutsKey(saved)
	layouts := e.LayoutCache()
	if err := cache.StoreLayouts(ctx, r.Cache, key, layouts, cache.TTLLayouts); err != nil {
		logger.Warn("could not store column cache", "key", key, "error", err)
		return
	}
	if len(layouts) > 0 {
		observability.Cache().OnCacheSet(ctx, "layouts", len(layouts))
	}
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
