package engine

// Event is one observable effect of a game state transition. The
// concrete types below form a closed set.
type Event interface {
	event()
}

// Flip reveals a card face-up.
type Flip struct {
	Card  int
	Image int
}

// Match records a completed pair: Player's score is the new total.
type Match struct {
	Player int
	Score  int
}

// MismatchPending signals that two revealed cards did not match and a
// resolution delay must be scheduled. No further reveals are accepted
// until Resolve is called.
type MismatchPending struct {
	First  int
	Second int
}

// Hide turns two mismatched cards face-down again.
type Hide struct {
	First  int
	Second int
}

// Turn announces the player who may reveal next.
type Turn struct {
	Player int
}

// GameOver marks the terminal state: every cell is matched.
type GameOver struct{}

func (Flip) event()            {}
func (Match) event()           {}
func (MismatchPending) event() {}
func (Hide) event()            {}
func (Turn) event()            {}
func (GameOver) event()        {}
