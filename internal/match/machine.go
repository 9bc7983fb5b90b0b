package match

import (
	"fmt"
)

// Machine owns the live state of a single match. It is not safe for
// concurrent use; the owner serialises calls.
type Machine struct {
	state         State
	defaultTarget int
}

// NewMachine returns a machine in the lobby. A non-positive defaultTarget
// falls back to DefaultTarget.
func NewMachine(defaultTarget int) *Machine {
	if defaultTarget <= 0 {
		defaultTarget = DefaultTarget
	}
	m := &Machine{defaultTarget: defaultTarget}
	m.state = m.lobby()
	return m
}

// Restore rebuilds a machine from a previously taken snapshot.
func Restore(snap Snapshot, defaultTarget int) (*Machine, error) {
	m := NewMachine(defaultTarget)
	state, err := snap.toState()
	if err != nil {
		return nil, err
	}
	m.state = state
	return m, nil
}

func (m *Machine) lobby() State {
	return State{
		InitialTarget: m.defaultTarget,
		Target:        m.defaultTarget,
		Type:          TypeOfficial,
	}
}

// DefaultTarget returns the target used for the lobby and for matches started without one.
func (m *Machine) DefaultTarget() int {
	return m.defaultTarget
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state.clone()
}

// AddParticipant places a player in the first empty slot. Adding a third
// player while both slots are filled leaves the state unchanged.
func (m *Machine) AddParticipant(id, name string) (State, error) {
	if m.state.Started {
		return m.State(), ErrMatchInProgress
	}
	if id == "" {
		return m.State(), ErrInvalidParticipant
	}
	if _, ok := m.state.Participant(id); ok {
		return m.State(), ErrDuplicateParticipant
	}

	p := Participant{ID: id, Name: name}
	switch {
	case m.state.Player1.IsEmpty():
		m.state.Player1 = Filled(p)
	case m.state.Player2.IsEmpty():
		m.state.Player2 = Filled(p)
	}
	return m.State(), nil
}

// StartMatch begins scoring towards target. Only valid once both slots are
// filled and the match has not already started.
func (m *Machine) StartMatch(target int, t Type) (State, error) {
	if m.state.Started {
		return m.State(), ErrMatchInProgress
	}
	if m.state.Phase() != PhaseReady {
		return m.State(), ErrNotReady
	}
	if target <= 0 {
		return m.State(), fmt.Errorf("%w: %d", ErrInvalidTarget, target)
	}
	if t == "" {
		t = TypeOfficial
	}
	if !t.Valid() {
		return m.State(), fmt.Errorf("%w: %s", ErrInvalidType, t)
	}

	m.state.InitialTarget = target
	m.state.Target = target
	m.state.Type = t
	m.state.Started = true
	m.state.Result = nil
	return m.State(), nil
}

// IncrementPoint adds a point to side and runs the completion check.
func (m *Machine) IncrementPoint(side Side) (State, error) {
	if err := m.requireOngoing(); err != nil {
		return m.State(), err
	}
	p, err := m.participant(side)
	if err != nil {
		return m.State(), err
	}
	p.Points++
	m.setParticipant(side, p)
	m.checkCompletion()
	return m.State(), nil
}

// DecrementPoint removes a point from side. It is a no-op when that side has no points.
func (m *Machine) DecrementPoint(side Side) (State, error) {
	if err := m.requireOngoing(); err != nil {
		return m.State(), err
	}
	p, err := m.participant(side)
	if err != nil {
		return m.State(), err
	}
	if p.Points == 0 {
		return m.State(), nil
	}
	p.Points--
	m.setParticipant(side, p)
	m.checkCompletion()
	return m.State(), nil
}

// SetPointsManually overwrites both scores and the target. A completed match
// is reopened before the completion check runs again on the new scores.
func (m *Machine) SetPointsManually(p1Points, p2Points, target int) (State, error) {
	if !m.state.Started {
		return m.State(), ErrNotStarted
	}
	if p1Points < 0 || p2Points < 0 {
		return m.State(), ErrInvalidPoints
	}
	if target <= 0 || target < m.state.InitialTarget {
		return m.State(), fmt.Errorf("%w: %d is below the initial target %d", ErrInvalidTarget, target, m.state.InitialTarget)
	}

	p1, _ := m.state.Player1.Get()
	p2, _ := m.state.Player2.Get()
	p1.Points = p1Points
	p2.Points = p2Points
	m.state.Player1 = Filled(p1)
	m.state.Player2 = Filled(p2)
	m.state.Target = target
	m.state.Result = nil
	m.checkCompletion()
	return m.State(), nil
}

// ResetPoints zeroes both scores and restores the initial target.
func (m *Machine) ResetPoints() (State, error) {
	if !m.state.Started {
		return m.State(), ErrNotStarted
	}
	p1, _ := m.state.Player1.Get()
	p2, _ := m.state.Player2.Get()
	p1.Points = 0
	p2.Points = 0
	m.state.Player1 = Filled(p1)
	m.state.Player2 = Filled(p2)
	m.state.Target = m.state.InitialTarget
	m.state.Result = nil
	return m.State(), nil
}

// Reset abandons whatever is in progress and returns to an empty lobby.
func (m *Machine) Reset() State {
	m.state = m.lobby()
	return m.State()
}

func (m *Machine) requireOngoing() error {
	if !m.state.Started {
		return ErrNotStarted
	}
	if m.state.Result != nil {
		return ErrMatchComplete
	}
	return nil
}

func (m *Machine) participant(side Side) (Participant, error) {
	switch side {
	case SideOne:
		p, _ := m.state.Player1.Get()
		return p, nil
	case SideTwo:
		p, _ := m.state.Player2.Get()
		return p, nil
	default:
		return Participant{}, ErrInvalidSide
	}
}

func (m *Machine) setParticipant(side Side, p Participant) {
	if side == SideOne {
		m.state.Player1 = Filled(p)
		return
	}
	m.state.Player2 = Filled(p)
}

// checkCompletion completes the match once a side has reached the target
// with a lead of at least two. A lead of one extends the target by one, a
// tie extends it by two.
func (m *Machine) checkCompletion() {
	p1, _ := m.state.Player1.Get()
	p2, _ := m.state.Player2.Get()
	if p1.Points < m.state.Target && p2.Points < m.state.Target {
		return
	}

	diff := m.state.MarginOfVictory()
	if diff < 2 {
		if diff == 0 {
			m.state.Target += 2
		} else {
			m.state.Target++
		}
		return
	}

	winner, loser := p1, p2
	if p2.Points > p1.Points {
		winner, loser = p2, p1
	}
	m.state.Result = &Result{WinnerID: winner.ID, LoserID: loser.ID}
}

// decided reports whether the score already meets the completion rule.
func (s State) decided() bool {
	p1, _ := s.Player1.Get()
	p2, _ := s.Player2.Get()
	return (p1.Points >= s.Target || p2.Points >= s.Target) && s.MarginOfVictory() >= 2
}

func (s State) clone() State {
	c := s
	if s.Result != nil {
		r := *s.Result
		c.Result = &r
	}
	return c
}

func (snap Snapshot) toState() (State, error) {
	s := State{
		Started:       snap.Started,
		InitialTarget: snap.InitialTarget,
		Target:        snap.Target,
		Type:          snap.Type,
	}
	if s.Type == "" {
		s.Type = TypeOfficial
	}
	if !s.Type.Valid() {
		return State{}, fmt.Errorf("%w: match type %q", ErrInvalidSnapshot, snap.Type)
	}
	if s.InitialTarget <= 0 || s.Target < s.InitialTarget {
		return State{}, fmt.Errorf("%w: target %d, initial target %d", ErrInvalidSnapshot, snap.Target, snap.InitialTarget)
	}
	if snap.Player1 == nil && snap.Player2 != nil {
		return State{}, fmt.Errorf("%w: second slot filled before the first", ErrInvalidSnapshot)
	}
	for _, p := range []*Participant{snap.Player1, snap.Player2} {
		if p != nil && (p.ID == "" || p.Points < 0) {
			return State{}, fmt.Errorf("%w: participant %+v", ErrInvalidSnapshot, *p)
		}
	}
	if snap.Player1 != nil {
		s.Player1 = Filled(*snap.Player1)
	}
	if snap.Player2 != nil {
		if snap.Player1.ID == snap.Player2.ID {
			return State{}, fmt.Errorf("%w: duplicate participant %s", ErrInvalidSnapshot, snap.Player2.ID)
		}
		s.Player2 = Filled(*snap.Player2)
	}
	if s.Started && (snap.Player1 == nil || snap.Player2 == nil) {
		return State{}, fmt.Errorf("%w: started without two participants", ErrInvalidSnapshot)
	}

	switch snap.Status {
	case StatusComplete:
		if !s.Started {
			return State{}, fmt.Errorf("%w: complete before start", ErrInvalidSnapshot)
		}
		w, wok := s.Participant(snap.WinnerID)
		l, lok := s.Participant(snap.LoserID)
		if !wok || !lok || w.ID == l.ID {
			return State{}, fmt.Errorf("%w: winner %q loser %q", ErrInvalidSnapshot, snap.WinnerID, snap.LoserID)
		}
		s.Result = &Result{WinnerID: w.ID, LoserID: l.ID}
	case StatusOngoing, "":
		if snap.WinnerID != "" || snap.LoserID != "" {
			return State{}, fmt.Errorf("%w: result set on an ongoing match", ErrInvalidSnapshot)
		}
		if s.Started && s.decided() {
			return State{}, fmt.Errorf("%w: ongoing at %d-%d with target %d", ErrInvalidSnapshot, snap.Player1.Points, snap.Player2.Points, s.Target)
		}
	default:
		return State{}, fmt.Errorf("%w: status %q", ErrInvalidSnapshot, snap.Status)
	}
	return s, nil
}
