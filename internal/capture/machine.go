// Package capture turns pointer input into committed strokes. A Machine
// serves one drawing surface and is driven from the UI goroutine only.
package capture

import (
	"log/slog"

	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

// State is the capture lifecycle state.
type State int

const (
	Idle State = iota
	Capturing
)

func (s State) String() string {
	if s == Capturing {
		return "capturing"
	}
	return "idle"
}

// Kind is the pointer event type.
type Kind int

const (
	Press Kind = iota
	Move
	Release
	// Cancel means the input was invalidated (device lost, multi-touch
	// conflict). The in-progress stroke is discarded.
	Cancel
	// Leave means the pointer left the surface. A stroke in progress is
	// committed so the user keeps the work.
	Leave
)

// Event is a pointer sample in canvas-local coordinates.
type Event struct {
	Kind      Kind
	PointerID int
	Position  geom.Point
	// Pressed reports an active primary button or touch contact.
	Pressed bool
}

// Params are the surface-wide values snapshotted into each new stroke.
type Params struct {
	Color   string
	Size    float64
	Opacity float64
	Tool    string
}

// Config configures a Machine.
type Config struct {
	Straighten Straighten
	// Clock drives the hold timer. Nil uses SystemClock.
	Clock Clock
}

// Machine is the stroke capture state machine with its undo stack.
type Machine struct {
	// OnChange is called after any change to the live or committed strokes.
	OnChange func()
	// OnCommit receives the committed list after a commit, undo or clear.
	// It is the persistence sink.
	OnCommit func(paths []state.Stroke)

	cfg       Config
	enabled   bool
	state     State
	pointer   int
	params    Params
	live      *state.Stroke
	snapped   bool
	committed []state.Stroke
	undo      [][]state.Stroke

	hold    Timer
	holdGen uint64
	log     *slog.Logger
}

// NewMachine returns an enabled, idle machine.
func NewMachine(cfg Config) *Machine {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	return &Machine{
		cfg:       cfg,
		enabled:   true,
		committed: []state.Stroke{},
		params:    Params{Color: state.DefaultColor, Size: state.DefaultSize, Opacity: state.DefaultOpacity, Tool: state.DefaultTool},
		log:       logging.For("capture"),
	}
}

// State returns the current lifecycle state.
func (m *Machine) State() State { return m.state }

// SetEnabled gates new captures. A capture in progress is unaffected.
func (m *Machine) SetEnabled(v bool) { m.enabled = v }

// Enabled reports whether a press would start a capture.
func (m *Machine) Enabled() bool { return m.enabled }

// SetParams sets the values the next stroke snapshots.
func (m *Machine) SetParams(p Params) { m.params = p }

// SetStraighten replaces the straighten configuration for later strokes.
func (m *Machine) SetStraighten(s Straighten) { m.cfg.Straighten = s }

// SetCommitted replaces the committed list with the host's copy. It does
// not touch the undo stack.
func (m *Machine) SetCommitted(paths []state.Stroke) {
	m.committed = state.ClonePaths(paths)
}

// Committed returns a copy of the committed strokes.
func (m *Machine) Committed() []state.Stroke {
	return state.ClonePaths(m.committed)
}

// Live returns a copy of the in-progress stroke, or nil.
func (m *Machine) Live() *state.Stroke {
	if m.live == nil {
		return nil
	}
	s := m.live.Clone()
	return &s
}

// Snapped reports whether the live stroke has been straightened.
func (m *Machine) Snapped() bool { return m.snapped }

// UndoDepth returns the number of undo snapshots.
func (m *Machine) UndoDepth() int { return len(m.undo) }

// Handle processes one pointer event.
func (m *Machine) Handle(e Event) {
	switch e.Kind {
	case Press:
		m.press(e)
	case Move:
		if m.owns(e) && e.Pressed {
			m.sample(e.Position)
		}
	case Release, Leave:
		if m.owns(e) {
			m.commit()
		}
	case Cancel:
		if m.owns(e) {
			m.discard()
		}
	}
}

func (m *Machine) owns(e Event) bool {
	return m.state == Capturing && e.PointerID == m.pointer
}

func (m *Machine) press(e Event) {
	if m.state == Capturing || !m.enabled {
		return
	}
	p := e.Position
	p.Pressure = geom.ClampPressure(p.Pressure)
	m.state = Capturing
	m.pointer = e.PointerID
	m.snapped = false
	m.live = &state.Stroke{
		ID:      m.newID(),
		Points:  []geom.Point{p},
		Color:   m.params.Color,
		Size:    geom.ClampBrushSize(m.params.Size),
		Opacity: geom.Clamp(m.params.Opacity, 0, 1),
		Tool:    m.params.Tool,
	}
	m.changed()
}

// newID returns an id not used by any committed stroke.
func (m *Machine) newID() string {
	for {
		id := state.NewID()
		dup := false
		for _, s := range m.committed {
			if s.ID == id {
				dup = true
				break
			}
		}
		if !dup {
			return id
		}
	}
}

func (m *Machine) sample(p geom.Point) {
	p.Pressure = geom.ClampPressure(p.Pressure)
	pts := m.live.Points
	if m.snapped {
		prev := pts[1]
		pts[1] = SnapAngle(pts[0], p, m.cfg.Straighten.AngleStep)
		if geom.Dist(prev, pts[1]) > m.cfg.Straighten.StillEpsilon {
			m.arm()
		}
		m.changed()
		return
	}
	prev := pts[len(pts)-1]
	m.live.Points = append(pts, p)
	if geom.Dist(prev, p) > m.cfg.Straighten.StillEpsilon {
		m.arm()
	}
	m.changed()
}

// arm restarts the hold timer.
func (m *Machine) arm() {
	cfg := m.cfg.Straighten
	if !cfg.Enabled {
		return
	}
	m.stopHold()
	gen := m.holdGen
	m.hold = m.cfg.Clock.AfterFunc(cfg.HoldDelay, func() { m.held(gen) })
}

func (m *Machine) stopHold() {
	if m.hold != nil {
		m.hold.Stop()
		m.hold = nil
	}
	m.holdGen++
}

// held runs when the pointer has dwelt for the hold delay.
func (m *Machine) held(gen uint64) {
	if gen != m.holdGen || m.state != Capturing {
		return
	}
	m.hold = nil
	pts := m.live.Points
	step := m.cfg.Straighten.AngleStep
	if m.snapped {
		if step <= 0 {
			return
		}
		pts[1] = SnapAngle(pts[0], pts[1], step)
		m.changed()
		return
	}
	if !FitsLine(pts, m.cfg.Straighten) {
		return
	}
	m.live.Points = []geom.Point{pts[0], pts[len(pts)-1]}
	m.snapped = true
	m.log.Debug("stroke straightened", "id", m.live.ID, "samples", len(pts))
	m.changed()
}

func (m *Machine) commit() {
	m.stopHold()
	s := *m.live
	prev := m.committed
	m.undo = append(m.undo, state.ClonePaths(prev))
	m.committed = append(state.ClonePaths(prev), s)
	m.reset()
	m.log.Debug("stroke committed", "id", s.ID, "points", len(s.Points), "tool", s.Tool)
	m.persist()
	m.changed()
}

func (m *Machine) discard() {
	m.stopHold()
	id := m.live.ID
	m.reset()
	m.log.Debug("stroke discarded", "id", id)
	m.changed()
}

func (m *Machine) reset() {
	m.live = nil
	m.snapped = false
	m.state = Idle
}

// Undo restores the list from before the most recent commit or clear. It
// reports false when there is nothing to undo.
func (m *Machine) Undo() bool {
	if len(m.undo) == 0 {
		return false
	}
	last := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.committed = last
	m.persist()
	m.changed()
	return true
}

// Clear empties the committed list, keeping the old one on the undo stack.
func (m *Machine) Clear() {
	m.undo = append(m.undo, state.ClonePaths(m.committed))
	m.committed = []state.Stroke{}
	m.persist()
	m.changed()
}

func (m *Machine) persist() {
	if m.OnCommit != nil {
		m.OnCommit(state.ClonePaths(m.committed))
	}
}

func (m *Machine) changed() {
	if m.OnChange != nil {
		m.OnChange()
	}
}
