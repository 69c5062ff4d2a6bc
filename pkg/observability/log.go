package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failed
// operations and server errors are logged as warnings. A single value
// satisfies all three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to l, prefixed with "obs".
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("obs")}
}

// Install registers h for layout, cache and HTTP events.
func (h *LogHooks) Install() {
	SetLayoutHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnOperationStart(_ context.Context, op string, widgetCount int) {
	h.logger.Debug("operation start", "op", op, "widgets", widgetCount)
}

func (h *LogHooks) OnOperationComplete(_ context.Context, op string, changed int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("operation failed", "op", op, "elapsed", d, "err", err)
		return
	}
	h.logger.Debug("operation done", "op", op, "changed", changed, "elapsed", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("response", "method", method, "path", path, "status", status, "elapsed", d)
		return
	}
	h.logger.Debug("response", "method", method, "path", path, "status", status, "elapsed", d)
}

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
