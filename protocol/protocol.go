// Package protocol defines the line-oriented text protocol spoken
// between the server and the memory game clients.
//
// Every message is a single UTF-8 line terminated by '\n'. Fields are
// separated by ':' and the first field names the command or event.
// List-valued fields use ',' between entries and ';' between records;
// consumers split on those before splitting on ':'.
//
// The formats here are a compatibility surface for the existing desktop
// client: field order and separator characters must not change.
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Client to server commands.
const (
	CmdCreate       = "CREATE"
	CmdGetRooms     = "GET_ROOMS"
	CmdJoin         = "JOIN"
	CmdKick         = "KICK"
	CmdStart        = "START"
	CmdClick        = "CLICK"
	CmdLeave        = "LEAVE"
	CmdGetState     = "GET_STATE"
	CmdGetGameState = "GET_GAME_STATE"
	CmdResetGame    = "RESET_GAME"
)

// Server to client events without payload.
const (
	EventGameOver   = "GAME_OVER"
	EventBackToRoom = "BACK_TO_ROOM"
	EventLeftRoom   = "LEFT_ROOM"
	EventKicked     = "KICKED"
)

// Error reasons with a fixed spelling the client matches on.
const (
	ErrReasonWrongPassword = "WRONG_PASSWORD"
	ErrReasonFull          = "FULL"
	ErrReasonInGame        = "IN_GAME"
	ErrReasonRoomExist     = "ROOM_EXIST"
)

// Room status strings as they appear in ROOM_LIST entries.
const (
	StatusWaiting = "WAITING"
	StatusInGame  = "IN GAME"
)

// Room visibility strings as they appear in ROOM_LIST entries.
const (
	VisibilityPublic  = "PUBLIC"
	VisibilityPrivate = "PRIVATE"
)

// ParseCommand splits an incoming line into the command name and its
// arguments. The line is split on every ':', matching the original
// client behavior; arguments therefore cannot themselves contain ':'.
func ParseCommand(line string) (cmd string, args []string) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, ":")
	return parts[0], parts[1:]
}

// Msg formats a free-text informational broadcast.
func Msg(text string) string {
	return "MSG:" + text
}

// Error formats a policy rejection sent only to the offending client.
func Error(reason string) string {
	return "ERROR:" + reason
}

// Joined acknowledges a successful room join with the assigned id.
func Joined(playerID int) string {
	return "JOINED:" + strconv.Itoa(playerID)
}

// RoomState describes current room membership:
// ROOM_STATE:<roomId>:<masterId>:<count>:<id,id,...>
func RoomState(roomID string, masterID, count int, playerIDs []int) string {
	ids := make([]string, len(playerIDs))
	for i, id := range playerIDs {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("ROOM_STATE:%s:%d:%d:%s", roomID, masterID, count, strings.Join(ids, ","))
}

// GameStart announces a fresh game to all room members.
func GameStart(totalCards int) string {
	return "GAME_START:" + strconv.Itoa(totalCards)
}

// GameInit carries the board size to a client that asked for the
// current game state after the game already started.
func GameInit(totalCards int) string {
	return "GAME_INIT:" + strconv.Itoa(totalCards)
}

// Score is one player's entry in a SCORES event.
type Score struct {
	PlayerID int
	Score    int
}

// Scores formats the full scoreboard: SCORES:<pid>=<score>,...
func Scores(scores []Score) string {
	entries := make([]string, len(scores))
	for i, s := range scores {
		entries[i] = fmt.Sprintf("%d=%d", s.PlayerID, s.Score)
	}
	return "SCORES:" + strings.Join(entries, ",")
}

// Turn announces whose turn it is.
func Turn(playerID int) string {
	return "TURN:" + strconv.Itoa(playerID)
}

// Flip reveals one card face-up to everyone.
func Flip(cardIndex, imageID int) string {
	return fmt.Sprintf("FLIP:%d:%d", cardIndex, imageID)
}

// Hide turns two mismatched cards face-down again.
func Hide(first, second int) string {
	return fmt.Sprintf("HIDE:%d:%d", first, second)
}

// Match reports a successful pair and the scorer's new total.
func Match(playerID, newScore int) string {
	return fmt.Sprintf("MATCH:%d:%d", playerID, newScore)
}

// PlayerDisconnected tells in-game clients a seat went dark while the
// game continues.
func PlayerDisconnected(playerID int) string {
	return "PLAYER_DISCONNECTED:" + strconv.Itoa(playerID)
}

// RoomEntry is one record in a ROOM_LIST event.
type RoomEntry struct {
	Name       string
	Master     string
	Count      int
	Status     string
	Visibility string
}

// RoomList formats the lobby listing. Each entry is terminated by ';',
// including the last one, which is what the client's splitter expects.
// With no rooms the payload is empty: "ROOM_LIST:".
func RoomList(entries []RoomEntry) string {
	var sb strings.Builder
	sb.WriteString("ROOM_LIST:")
	for _, e := range entries {
		sb.WriteString(e.Name)
		sb.WriteByte(',')
		sb.WriteString(e.Master)
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(e.Count))
		sb.WriteByte(',')
		sb.WriteString(e.Status)
		sb.WriteByte(',')
		sb.WriteString(e.Visibility)
		sb.WriteByte(';')
	}
	return sb.String()
}
