package lobby

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aristel/arcana-server/game/room"
	"github.com/aristel/arcana-server/protocol"
)

// Session processes the command stream of one connected client.
type Session struct {
	id     string
	reg    *Registry
	client room.Client
	log    *zap.SugaredLogger

	room     *room.Room
	playerID int
}

// NewSession binds a client connection to the registry.
func NewSession(reg *Registry, c room.Client, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	id := uuid.NewString()
	return &Session{
		id:     id,
		reg:    reg,
		client: c,
		log:    log.With("conn", id),
	}
}

// ID returns the connection's log identifier.
func (s *Session) ID() string {
	return s.id
}

// HandleLine parses and dispatches a single command line. Unknown or
// malformed commands are dropped without a reply; the connection stays
// open either way.
func (s *Session) HandleLine(line string) {
	cmd, args := protocol.ParseCommand(line)

	switch cmd {
	case protocol.CmdCreate:
		if len(args) < 1 || args[0] == "" || s.room != nil {
			return
		}
		password := ""
		if len(args) > 1 {
			password = args[1]
		}
		r, err := s.reg.Create(args[0], password)
		if errors.Is(err, ErrRoomExists) {
			s.client.Send(protocol.Error(protocol.ErrReasonRoomExist))
			return
		}
		s.client.Send(protocol.Msg(fmt.Sprintf("Room '%s' created.", args[0])))
		s.join(r, password, true)

	case protocol.CmdGetRooms:
		s.client.Send(protocol.RoomList(s.reg.List()))

	case protocol.CmdJoin:
		if len(args) < 1 || args[0] == "" || s.room != nil {
			return
		}
		r, ok := s.reg.Find(args[0])
		if !ok {
			s.client.Send(protocol.Error("Room does not exist."))
			return
		}
		password := ""
		if len(args) > 1 {
			password = args[1]
		}
		s.join(r, password, false)

	case protocol.CmdKick:
		if s.room == nil || len(args) < 1 {
			return
		}
		target, err := strconv.Atoi(args[0])
		if err != nil {
			return
		}
		s.room.Kick(s.playerID, target)

	case protocol.CmdStart:
		if s.room == nil {
			return
		}
		s.room.Start(s.playerID)

	case protocol.CmdClick:
		if s.room == nil || len(args) < 1 {
			return
		}
		cardIndex, err := strconv.Atoi(args[0])
		if err != nil {
			return
		}
		s.room.Reveal(s.playerID, cardIndex)

	case protocol.CmdLeave:
		if s.room == nil {
			return
		}
		s.room.Leave(s.playerID)
		s.room = nil
		s.client.Send(protocol.EventLeftRoom)

	case protocol.CmdGetState:
		if s.room == nil {
			return
		}
		s.room.SendState(s.playerID)

	case protocol.CmdGetGameState:
		if s.room == nil {
			return
		}
		s.room.SendGameState(s.playerID)

	case protocol.CmdResetGame:
		if s.room == nil {
			return
		}
		s.room.Reset()

	default:
		s.log.Debugw("ignoring unknown command", "command", cmd)
	}
}

// Close performs the implicit LEAVE when the connection goes away for
// any reason. Safe to call on a session that never joined a room.
func (s *Session) Close() {
	if s.room != nil {
		s.room.Leave(s.playerID)
		s.room = nil
	}
}

// join attempts the room join and maps policy rejections onto the
// client-facing error spellings.
func (s *Session) join(r *room.Room, password string, creator bool) {
	id, err := r.Join(s.client, password)
	switch {
	case errors.Is(err, room.ErrGameRunning):
		s.client.Send(protocol.Error(protocol.ErrReasonInGame))
	case errors.Is(err, room.ErrRoomFull):
		s.client.Send(protocol.Error(protocol.ErrReasonFull))
	case errors.Is(err, room.ErrWrongPassword):
		s.client.Send(protocol.Error(protocol.ErrReasonWrongPassword))
	case err == nil:
		s.room = r
		s.playerID = id
		s.client.Send(protocol.Joined(id))
		if creator {
			s.client.Send(protocol.Msg("You are the Room Master!"))
		}
		s.log.Infow("joined room", "room", r.ID(), "player", id)
	}
}
