// Package logging holds the process-wide structured logger used by the
// engine packages. By default nothing is logged.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs l for all engine packages. Pass nil to silence logging
// again. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// currentHandler forwards to the handler of whatever logger is installed
// when a record is logged, replaying the attrs and groups added since.
type currentHandler struct {
	ops []func(slog.Handler) slog.Handler
}

func (h currentHandler) resolve() slog.Handler {
	hd := Logger().Handler()
	for _, op := range h.ops {
		hd = op(hd)
	}
	return hd
}

func (h currentHandler) with(op func(slog.Handler) slog.Handler) currentHandler {
	ops := make([]func(slog.Handler) slog.Handler, len(h.ops), len(h.ops)+1)
	copy(ops, h.ops)
	return currentHandler{ops: append(ops, op)}
}

func (h currentHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return Logger().Handler().Enabled(ctx, l)
}

func (h currentHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.resolve().Handle(ctx, r)
}

func (h currentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.with(func(hd slog.Handler) slog.Handler { return hd.WithAttrs(attrs) })
}

func (h currentHandler) WithGroup(name string) slog.Handler {
	return h.with(func(hd slog.Handler) slog.Handler { return hd.WithGroup(name) })
}

// For returns a logger tagged with a component name. It follows later
// SetLogger calls, so components may keep it for their lifetime.
func For(component string) *slog.Logger {
	return slog.New(currentHandler{}).With("component", component)
}
