package match

// DefaultTarget is the target score used when a match is started without one.
const DefaultTarget = 11

// Status is the scoring status of a started match.
type Status string

const (
	StatusOngoing  Status = "ONGOING"
	StatusComplete Status = "COMPLETE"
)

// Phase describes where the match is in its lifecycle.
type Phase string

const (
	PhaseLobby      Phase = "LOBBY"
	PhaseReady      Phase = "READY"
	PhaseInProgress Phase = "IN_PROGRESS"
	PhaseComplete   Phase = "COMPLETE"
)

// Type distinguishes official matches from practice ones.
type Type string

const (
	TypeOfficial Type = "OFFICIAL"
	TypeDummy    Type = "DUMMY"
)

// Valid reports whether t is a known match type.
func (t Type) Valid() bool {
	return t == TypeOfficial || t == TypeDummy
}

// Side selects one of the two participants.
type Side int

const (
	SideOne Side = 1
	SideTwo Side = 2
)

// Participant is a player taking part in the current match.
type Participant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Slot holds either nothing or a participant.
type Slot struct {
	participant Participant
	filled      bool
}

// Filled returns a slot holding p.
func Filled(p Participant) Slot {
	return Slot{participant: p, filled: true}
}

// Get returns the participant and whether the slot is filled.
func (s Slot) Get() (Participant, bool) {
	return s.participant, s.filled
}

// IsEmpty reports whether no participant has been placed in the slot.
func (s Slot) IsEmpty() bool {
	return !s.filled
}

// Result names the winner and loser of a completed match.
type Result struct {
	WinnerID string `json:"winner_id"`
	LoserID  string `json:"loser_id"`
}

// State is an immutable view of the match at one point in time.
type State struct {
	Started       bool
	Player1       Slot
	Player2       Slot
	InitialTarget int
	Target        int
	Type          Type
	// Result is nil while the match is ongoing.
	Result *Result
}

// Status derives the scoring status from the presence of a result.
func (s State) Status() Status {
	if s.Result != nil {
		return StatusComplete
	}
	return StatusOngoing
}

// Phase reports the lifecycle phase of the state.
func (s State) Phase() Phase {
	switch {
	case s.Started && s.Result != nil:
		return PhaseComplete
	case s.Started:
		return PhaseInProgress
	case !s.Player1.IsEmpty() && !s.Player2.IsEmpty():
		return PhaseReady
	default:
		return PhaseLobby
	}
}

// MarginOfVictory is the absolute point difference between the two participants.
func (s State) MarginOfVictory() int {
	p1, _ := s.Player1.Get()
	p2, _ := s.Player2.Get()
	d := p1.Points - p2.Points
	if d < 0 {
		return -d
	}
	return d
}

// Participant returns the participant with the given id.
func (s State) Participant(id string) (Participant, bool) {
	if p, ok := s.Player1.Get(); ok && p.ID == id {
		return p, true
	}
	if p, ok := s.Player2.Get(); ok && p.ID == id {
		return p, true
	}
	return Participant{}, false
}

// Snapshot is the serialisable form of a State.
type Snapshot struct {
	Started       bool         `json:"started"`
	Player1       *Participant `json:"player1,omitempty"`
	Player2       *Participant `json:"player2,omitempty"`
	InitialTarget int          `json:"initial_target"`
	Target        int          `json:"target"`
	Status        Status       `json:"status"`
	Type          Type         `json:"match_type"`
	WinnerID      string       `json:"winner_id,omitempty"`
	LoserID       string       `json:"loser_id,omitempty"`
}

// Snapshot flattens the state for storage and transport.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Started:       s.Started,
		InitialTarget: s.InitialTarget,
		Target:        s.Target,
		Status:        s.Status(),
		Type:          s.Type,
	}
	if p, ok := s.Player1.Get(); ok {
		snap.Player1 = &p
	}
	if p, ok := s.Player2.Get(); ok {
		snap.Player2 = &p
	}
	if s.Result != nil {
		snap.WinnerID = s.Result.WinnerID
		snap.LoserID = s.Result.LoserID
	}
	return snap
}
