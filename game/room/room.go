package room

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aristel/arcana-server/game/deck"
	"github.com/aristel/arcana-server/game/engine"
	"github.com/aristel/arcana-server/protocol"
)

const (
	// MaxPlayers is the seat limit per room.
	MaxPlayers = 4

	// CardsPerPlayer scales the board with the player count.
	CardsPerPlayer = 10

	// DefaultMismatchDelay is how long mismatched cards stay face-up
	// before they are hidden and the turn passes.
	DefaultMismatchDelay = 2 * time.Second
)

var (
	ErrRoomFull      = errors.New("room is full")
	ErrGameRunning   = errors.New("game already running")
	ErrWrongPassword = errors.New("wrong password")
)

// Client is the outbound side of one connected player. Send must not
// block: transports queue the line and drain it from a dedicated
// writer. Close tears the connection down.
type Client interface {
	Send(line string)
	Close() error
}

// Player is one seat in a room. Owned by the room; all access goes
// through room methods.
type Player struct {
	ID     int
	Score  int
	Client Client
}

// State is a read-only snapshot used by the HTTP API and MCP tools.
type State struct {
	RoomID      string `json:"room_id"`
	MasterID    int    `json:"master_id"`
	PlayerCount int    `json:"player_count"`
	Players     []int  `json:"players"`
	Status      string `json:"status"`
	Private     bool   `json:"private"`
}

// Room is one isolated game/lobby instance.
type Room struct {
	id           string
	passwordHash string
	private      bool
	onEmpty      func(id string)
	log          *zap.SugaredLogger

	mu            sync.Mutex
	players       []*Player // insertion order = turn-table order
	master        *Player
	nextID        int // monotonically increasing, never reused
	inGame        bool
	finished      bool // game just completed, awaiting reset
	game          *engine.Game
	epoch         uint64 // bumped on every start/stop; guards stray timers
	mismatchDelay time.Duration
}

// New creates an empty room. password may be empty for a public room.
// onEmpty is invoked (outside the room lock) when the last player
// leaves; the registry uses it to delete the room.
func New(id, password string, onEmpty func(id string), log *zap.SugaredLogger) *Room {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r := &Room{
		id:            id,
		onEmpty:       onEmpty,
		log:           log,
		mismatchDelay: DefaultMismatchDelay,
	}
	if password != "" {
		r.private = true
		r.passwordHash = hashPassword(password)
	}
	return r
}

// SetMismatchDelay overrides the mismatch-resolution delay. Tests use
// this to avoid real waits.
func (r *Room) SetMismatchDelay(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mismatchDelay = d
}

// ID returns the room's immutable identifier.
func (r *Room) ID() string {
	return r.id
}

// Join seats a new player. It fails while a game is running, when the
// room is full, or when a private room's password doesn't match.
// On success the new id is returned and membership is broadcast.
func (r *Room) Join(c Client, password string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inGame {
		return 0, ErrGameRunning
	}
	if len(r.players) >= MaxPlayers {
		return 0, ErrRoomFull
	}
	if r.private && hashPassword(password) != r.passwordHash {
		return 0, ErrWrongPassword
	}

	p := &Player{ID: r.nextID, Client: c}
	r.nextID++
	r.players = append(r.players, p)
	if r.master == nil {
		r.master = p
	}

	r.broadcastLocked(protocol.Msg(fmt.Sprintf("Player %d connected.", p.ID)))
	r.broadcastLocked(protocol.Msg(fmt.Sprintf("Current Room Master is Player %d", r.master.ID)))
	r.broadcastStateLocked()
	return p.ID, nil
}

// Leave removes a player. Unknown ids are ignored, so the disconnect
// teardown can call this unconditionally.
func (r *Room) Leave(playerID int) {
	r.mu.Lock()
	empty := r.removeLocked(playerID, fmt.Sprintf("Player %d left the room.", playerID))
	r.mu.Unlock()

	if empty && r.onEmpty != nil {
		r.onEmpty(r.id)
	}
}

// Kick forcibly removes targetID. Only the current master may kick, and
// only other players. The target is told first, then disconnected.
func (r *Room) Kick(requesterID, targetID int) {
	r.mu.Lock()
	if r.master == nil || r.master.ID != requesterID || targetID == requesterID {
		r.mu.Unlock()
		return
	}
	target := r.findLocked(targetID)
	if target == nil {
		r.mu.Unlock()
		return
	}

	target.Client.Send(protocol.EventKicked)
	r.removeLocked(targetID, fmt.Sprintf("Player %d was banished by the Room Master.", targetID))
	r.mu.Unlock()

	// The master stays, so the room cannot have become empty.
	_ = target.Client.Close()
}

// Start launches a game. Only the master may start; a lone player
// cannot. The opening turn is picked uniformly at random.
func (r *Room) Start(requesterID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inGame {
		return
	}
	requester := r.findLocked(requesterID)
	if requester == nil {
		return
	}
	// A seated requester implies a non-empty room, which always has a
	// master.
	if r.master.ID != requesterID {
		requester.Client.Send(protocol.Error(
			fmt.Sprintf("Only the Room Master (Player %d) can start the game.", r.master.ID)))
		return
	}
	if len(r.players) < 2 {
		r.broadcastLocked(protocol.Msg("Need at least 2 players to start."))
		return
	}

	totalCards := len(r.players) * CardsPerPlayer
	board, err := deck.Generate(totalCards)
	if err != nil {
		r.log.Errorw("board generation failed", "room", r.id, "total_cards", totalCards, "error", err)
		return
	}

	seats := make([]int, len(r.players))
	for i, p := range r.players {
		seats[i] = p.ID
		p.Score = 0
	}

	g, err := engine.New(seats, board, rand.Intn(len(seats)))
	if err != nil {
		r.log.Errorw("engine start failed", "room", r.id, "error", err)
		return
	}

	r.game = g
	r.inGame = true
	r.finished = false
	r.epoch++

	r.broadcastLocked(protocol.GameStart(totalCards))
	r.broadcastLocked(protocol.Msg(fmt.Sprintf("Randomly selected Player %d to start!", g.CurrentPlayer())))
	r.broadcastLocked(protocol.Turn(g.CurrentPlayer()))
	r.log.Infow("game started", "room", r.id, "players", len(seats), "cards", totalCards)
}

// Reveal processes a card click for playerID. All rejection cases are
// silent, mirroring the engine's rules.
func (r *Room) Reveal(playerID, cardIndex int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inGame || r.game == nil {
		return
	}
	r.applyLocked(r.game.Reveal(playerID, cardIndex))
}

// Reset returns the room to the lobby, discarding board and scores.
// Calling it while already waiting (and not just after a completed
// game) is a no-op, so every client's post-game reset is safe.
func (r *Room) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inGame && !r.finished {
		return
	}
	r.stopLocked()
	r.broadcastLocked(protocol.EventBackToRoom)
	r.broadcastStateLocked()
}

// SendState pushes the current membership snapshot to one player.
func (r *Room) SendState(playerID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findLocked(playerID)
	if p == nil {
		return
	}
	p.Client.Send(r.stateLineLocked())
}

// SendGameState pushes the running game's snapshot (board size, scores,
// current turn) to one player. Late joiners to the board view use this.
func (r *Room) SendGameState(playerID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findLocked(playerID)
	if p == nil || !r.inGame || r.game == nil {
		return
	}
	p.Client.Send(protocol.GameInit(r.game.TotalCards()))
	p.Client.Send(protocol.Scores(r.scoresLocked()))
	p.Client.Send(protocol.Turn(r.game.CurrentPlayer()))
}

// Summary returns the room's lobby-listing entry.
func (r *Room) Summary() protocol.RoomEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := protocol.RoomEntry{
		Name:       r.id,
		Master:     "Unknown",
		Count:      len(r.players),
		Status:     protocol.StatusWaiting,
		Visibility: protocol.VisibilityPublic,
	}
	if r.master != nil {
		entry.Master = fmt.Sprintf("Player %d", r.master.ID)
	}
	if r.inGame {
		entry.Status = protocol.StatusInGame
	}
	if r.private {
		entry.Visibility = protocol.VisibilityPrivate
	}
	return entry
}

// Describe returns a snapshot for the HTTP API and MCP tools.
func (r *Room) Describe() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int, len(r.players))
	for i, p := range r.players {
		ids[i] = p.ID
	}
	s := State{
		RoomID:      r.id,
		PlayerCount: len(r.players),
		Players:     ids,
		Status:      protocol.StatusWaiting,
		Private:     r.private,
	}
	if r.master != nil {
		s.MasterID = r.master.ID
	}
	if r.inGame {
		s.Status = protocol.StatusInGame
	}
	return s
}

// PlayerCount returns the number of seated players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// CurrentTurn returns the id of the player whose turn it is, or false
// when no game is running. Tests use this to assert turn invariants.
func (r *Room) CurrentTurn() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inGame || r.game == nil {
		return 0, false
	}
	return r.game.CurrentPlayer(), true
}

// MasterID returns the current master's id, or false for an empty room.
func (r *Room) MasterID() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.master == nil {
		return 0, false
	}
	return r.master.ID, true
}

// removeLocked deletes the slot, announces it, reassigns mastership and
// stops or repairs a running game. Returns true when the room emptied.
func (r *Room) removeLocked(playerID int, announce string) bool {
	idx := -1
	for i, p := range r.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	leaving := r.players[idx]
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	r.broadcastLocked(protocol.Msg(announce))

	if len(r.players) == 0 {
		r.master = nil
		if r.inGame || r.finished {
			r.stopSilentlyLocked()
		}
		return true
	}

	if leaving == r.master {
		r.master = r.players[0]
		r.broadcastLocked(protocol.Msg(
			fmt.Sprintf("Owner left. Player %d is now the Room Master!", r.master.ID)))
	}

	if r.inGame {
		if len(r.players) < 2 {
			r.stopLocked()
			r.broadcastLocked(protocol.Msg("Not enough players to continue. Game Stopped."))
			r.broadcastLocked(protocol.EventBackToRoom)
		} else {
			r.broadcastLocked(protocol.PlayerDisconnected(playerID))
			r.applyLocked(r.game.RemoveSeat(playerID))
		}
	}

	r.broadcastStateLocked()
	return false
}

// applyLocked translates engine events into protocol broadcasts and
// schedules the mismatch-resolution timer.
func (r *Room) applyLocked(events []engine.Event) {
	for _, e := range events {
		switch e := e.(type) {
		case engine.Flip:
			r.broadcastLocked(protocol.Flip(e.Card, e.Image))
		case engine.Match:
			if p := r.findLocked(e.Player); p != nil {
				p.Score = e.Score
			}
			r.broadcastLocked(protocol.Match(e.Player, e.Score))
			r.broadcastLocked(protocol.Msg(
				fmt.Sprintf("Player %d found a match and KEEPS the turn!", e.Player)))
		case engine.Turn:
			r.broadcastLocked(protocol.Turn(e.Player))
		case engine.Hide:
			r.broadcastLocked(protocol.Hide(e.First, e.Second))
			r.broadcastLocked(protocol.Msg("Mismatch! Turn passes to next player."))
		case engine.MismatchPending:
			epoch := r.epoch
			time.AfterFunc(r.mismatchDelay, func() {
				r.finishMismatch(epoch)
			})
		case engine.GameOver:
			r.inGame = false
			r.finished = true
			r.game = nil
			r.epoch++
			r.broadcastLocked(protocol.EventGameOver)
			r.log.Infow("game over", "room", r.id)
		}
	}
}

// finishMismatch runs when the mismatch delay elapses. The epoch check
// turns it into a no-op if the game was stopped or restarted meanwhile.
func (r *Room) finishMismatch(epoch uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inGame || r.game == nil || r.epoch != epoch {
		return
	}
	r.applyLocked(r.game.Resolve())
}

// stopLocked discards game state and resets scores.
func (r *Room) stopLocked() {
	r.stopSilentlyLocked()
	for _, p := range r.players {
		p.Score = 0
	}
}

func (r *Room) stopSilentlyLocked() {
	r.inGame = false
	r.finished = false
	r.game = nil
	r.epoch++
}

func (r *Room) findLocked(playerID int) *Player {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (r *Room) scoresLocked() []protocol.Score {
	scores := make([]protocol.Score, len(r.players))
	for i, p := range r.players {
		scores[i] = protocol.Score{PlayerID: p.ID, Score: p.Score}
	}
	return scores
}

func (r *Room) stateLineLocked() string {
	ids := make([]int, len(r.players))
	for i, p := range r.players {
		ids[i] = p.ID
	}
	masterID := 0
	if r.master != nil {
		masterID = r.master.ID
	}
	return protocol.RoomState(r.id, masterID, len(r.players), ids)
}

func (r *Room) broadcastStateLocked() {
	r.broadcastLocked(r.stateLineLocked())
}

func (r *Room) broadcastLocked(line string) {
	for _, p := range r.players {
		p.Client.Send(line)
	}
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
