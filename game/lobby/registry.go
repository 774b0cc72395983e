package lobby

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/aristel/arcana-server/game/room"
	"github.com/aristel/arcana-server/protocol"
)

// ErrRoomExists is returned when creating a room whose id is taken.
var ErrRoomExists = errors.New("room already exists")

// Registry maps room ids to live rooms. Rooms delete themselves from
// the registry when their last player leaves.
type Registry struct {
	log *zap.SugaredLogger

	mu    sync.RWMutex
	rooms map[string]*room.Room
}

// NewRegistry creates an empty registry.
func NewRegistry(log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Registry{
		log:   log,
		rooms: make(map[string]*room.Room),
	}
}

// Create makes a new room under id. Fails with ErrRoomExists on a name
// collision; nothing is broadcast in that case.
func (reg *Registry) Create(id, password string) (*room.Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.rooms[id]; exists {
		return nil, ErrRoomExists
	}
	r := room.New(id, password, reg.Remove, reg.log)
	reg.rooms[id] = r
	reg.log.Infow("room created", "room", id, "private", password != "")
	return r, nil
}

// Find looks a room up by id.
func (reg *Registry) Find(id string) (*room.Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// Remove deletes a room if present. Idempotent.
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rooms[id]; ok {
		delete(reg.rooms, id)
		reg.log.Infow("room deleted", "room", id)
	}
}

// List returns a lobby snapshot. The registry lock is released before
// the per-room summaries are taken, so a busy room never stalls the
// listing and vice versa.
func (reg *Registry) List() []protocol.RoomEntry {
	rooms := reg.snapshot()
	entries := make([]protocol.RoomEntry, 0, len(rooms))
	for _, r := range rooms {
		entries = append(entries, r.Summary())
	}
	return entries
}

// Describe returns full state snapshots for the HTTP API and MCP tools.
func (reg *Registry) Describe() []room.State {
	rooms := reg.snapshot()
	states := make([]room.State, 0, len(rooms))
	for _, r := range rooms {
		states = append(states, r.Describe())
	}
	return states
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

func (reg *Registry) snapshot() []*room.Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	rooms := make([]*room.Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}
