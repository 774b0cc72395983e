package engine

import "fmt"

// Game is one running match. Not safe for concurrent use; the owning
// room serializes all calls.
type Game struct {
	board   []int
	matched []bool

	seats  []int // player ids in table order
	turn   int   // index into seats
	scores map[int]int

	firstPick   int // board index of the pending first pick, -1 if none
	resolving   bool
	pendingHide [2]int
	over        bool
}

// New starts a game on the given board with the given seating order.
// firstTurn is an index into seats.
func New(seats []int, board []int, firstTurn int) (*Game, error) {
	if len(seats) < 2 {
		return nil, fmt.Errorf("need at least 2 seats, got %d", len(seats))
	}
	if len(board) == 0 || len(board)%2 != 0 {
		return nil, fmt.Errorf("board size must be a positive even number, got %d", len(board))
	}
	if firstTurn < 0 || firstTurn >= len(seats) {
		return nil, fmt.Errorf("first turn index %d out of range", firstTurn)
	}

	scores := make(map[int]int, len(seats))
	for _, id := range seats {
		scores[id] = 0
	}
	return &Game{
		board:     append([]int(nil), board...),
		matched:   make([]bool, len(board)),
		seats:     append([]int(nil), seats...),
		turn:      firstTurn,
		scores:    scores,
		firstPick: -1,
	}, nil
}

// Reveal processes one card pick by playerID. Illegal picks are
// rejected silently and return no events.
func (g *Game) Reveal(playerID, card int) []Event {
	if g.over || g.resolving {
		return nil
	}
	if g.seats[g.turn] != playerID {
		return nil
	}
	if card < 0 || card >= len(g.board) || g.matched[card] {
		return nil
	}
	if card == g.firstPick {
		return nil
	}

	image := g.board[card]
	events := []Event{Flip{Card: card, Image: image}}

	if g.firstPick == -1 {
		g.firstPick = card
		return events
	}

	first := g.firstPick
	g.firstPick = -1

	if g.board[first] != image {
		g.resolving = true
		g.pendingHide = [2]int{first, card}
		return append(events, MismatchPending{First: first, Second: card})
	}

	g.matched[first] = true
	g.matched[card] = true
	g.scores[playerID]++
	events = append(events, Match{Player: playerID, Score: g.scores[playerID]})

	if g.allMatched() {
		g.over = true
		return append(events, GameOver{})
	}
	// Matching keeps the turn; re-announce it so clients unlock input.
	return append(events, Turn{Player: playerID})
}

// Resolve finishes a pending mismatch: hides both cards and passes the
// turn to the next seat. It is a no-op unless a mismatch is pending, so
// a late-firing timer against a reset game does no harm.
func (g *Game) Resolve() []Event {
	if !g.resolving || g.over {
		return nil
	}
	g.resolving = false
	g.turn = (g.turn + 1) % len(g.seats)
	return []Event{
		Hide{First: g.pendingHide[0], Second: g.pendingHide[1]},
		Turn{Player: g.seats[g.turn]},
	}
}

// RemoveSeat drops a player from the seating order, keeping the turn on
// a seated player. The departed player's score is retained for final
// standings. Removing an unknown id is a no-op.
func (g *Game) RemoveSeat(playerID int) []Event {
	idx := -1
	for i, id := range g.seats {
		if id == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	g.seats = append(g.seats[:idx], g.seats[idx+1:]...)
	if len(g.seats) == 0 {
		return nil
	}

	switch {
	case idx < g.turn:
		g.turn--
	case idx == g.turn:
		g.turn %= len(g.seats)
		if !g.resolving && !g.over {
			return []Event{Turn{Player: g.seats[g.turn]}}
		}
	}
	return nil
}

// CurrentPlayer returns the id of the player whose turn it is.
func (g *Game) CurrentPlayer() int {
	return g.seats[g.turn]
}

// SeatCount returns the number of players still seated.
func (g *Game) SeatCount() int {
	return len(g.seats)
}

// TotalCards returns the board size.
func (g *Game) TotalCards() int {
	return len(g.board)
}

// Over reports whether the board has been fully matched.
func (g *Game) Over() bool {
	return g.over
}

// Resolving reports whether a mismatch delay is outstanding.
func (g *Game) Resolving() bool {
	return g.resolving
}

// Score returns playerID's current score.
func (g *Game) Score(playerID int) int {
	return g.scores[playerID]
}

// ImageAt exposes the image id of a board cell. Used by tests and by
// state snapshots; clients only ever learn images through Flip events.
func (g *Game) ImageAt(card int) int {
	return g.board[card]
}

func (g *Game) allMatched() bool {
	for _, m := range g.matched {
		if !m {
			return false
		}
	}
	return true
}
