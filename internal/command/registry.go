package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"InkBoard/internal/state"
)

// ErrUnknownAction is returned by Dispatch for unregistered names.
var ErrUnknownAction = errors.New("command: unknown action")

// Handler runs one named action with positional JSON arguments.
type Handler func(args []json.RawMessage) (bool, error)

// Registry maps action names to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns a registry holding the drawing actions of e.
func NewRegistry(e *Editor) *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register("insertDrawing", func(args []json.RawMessage) (bool, error) {
		pos := e.doc.Len()
		if len(args) > 0 {
			if err := json.Unmarshal(args[0], &pos); err != nil {
				return false, fmt.Errorf("position: %w", err)
			}
		}
		var attrs *state.Attrs
		if len(args) > 1 {
			a, err := state.DecodeJSON(args[1])
			if err != nil {
				return false, fmt.Errorf("attrs: %w", err)
			}
			attrs = &a
		}
		e.InsertDrawing(pos, attrs)
		return true, nil
	})
	r.Register("clearDrawing", noArgs(e.ClearDrawing))
	r.Register("undoDrawing", noArgs(e.UndoDrawing))
	r.Register("enableGlobalDrawing", noArgs(e.EnableGlobalDrawing))
	r.Register("disableGlobalDrawing", noArgs(e.DisableGlobalDrawing))
	r.Register("setDrawingTool", stringArg(e.SetDrawingTool))
	r.Register("setDrawingColor", stringArg(e.SetDrawingColor))
	r.Register("setBrushSize", numberArg(e.SetBrushSize))
	r.Register("increaseBrushSize", numberArg(e.IncreaseBrushSize))
	r.Register("decreaseBrushSize", numberArg(e.DecreaseBrushSize))
	return r
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, h Handler) { r.handlers[name] = h }

// Names returns the registered action names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs action. The boolean is the action's own result; the error
// reports an unknown action or malformed arguments.
func (r *Registry) Dispatch(action string, args []json.RawMessage) (bool, error) {
	h, ok := r.handlers[action]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	ok, err := h(args)
	if err != nil {
		return false, fmt.Errorf("%s: %w", action, err)
	}
	return ok, nil
}

func noArgs(fn func() bool) Handler {
	return func([]json.RawMessage) (bool, error) { return fn(), nil }
}

func stringArg(fn func(string) bool) Handler {
	return func(args []json.RawMessage) (bool, error) {
		if len(args) < 1 {
			return false, errors.New("missing argument")
		}
		var s string
		if err := json.Unmarshal(args[0], &s); err != nil {
			return false, err
		}
		return fn(s), nil
	}
}

func numberArg(fn func(float64) bool) Handler {
	return func(args []json.RawMessage) (bool, error) {
		if len(args) < 1 {
			return false, errors.New("missing argument")
		}
		var f float64
		if err := json.Unmarshal(args[0], &f); err != nil {
			return false, err
		}
		return fn(f), nil
	}
}
