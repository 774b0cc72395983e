package protocol

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line     string
		wantCmd  string
		wantArgs []string
	}{
		{"CREATE:myroom", "CREATE", []string{"myroom"}},
		{"CREATE:myroom:secret", "CREATE", []string{"myroom", "secret"}},
		{"GET_ROOMS", "GET_ROOMS", []string{}},
		{"CLICK:7", "CLICK", []string{"7"}},
		{"CLICK:7\r", "CLICK", []string{"7"}},
		{"", "", []string{}},
	}

	for _, tt := range tests {
		cmd, args := ParseCommand(tt.line)
		if cmd != tt.wantCmd {
			t.Errorf("ParseCommand(%q) cmd = %q, want %q", tt.line, cmd, tt.wantCmd)
		}
		if len(args) != len(tt.wantArgs) {
			t.Errorf("ParseCommand(%q) args = %v, want %v", tt.line, args, tt.wantArgs)
			continue
		}
		for i := range args {
			if args[i] != tt.wantArgs[i] {
				t.Errorf("ParseCommand(%q) args[%d] = %q, want %q", tt.line, i, args[i], tt.wantArgs[i])
			}
		}
	}
}

func TestEventFormats(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{Msg("Player 0 connected."), "MSG:Player 0 connected."},
		{Error(ErrReasonFull), "ERROR:FULL"},
		{Joined(3), "JOINED:3"},
		{RoomState("tower", 1, 3, []int{0, 1, 3}), "ROOM_STATE:tower:1:3:0,1,3"},
		{RoomState("solo", 0, 1, []int{0}), "ROOM_STATE:solo:0:1:0"},
		{GameStart(20), "GAME_START:20"},
		{GameInit(40), "GAME_INIT:40"},
		{Scores([]Score{{0, 2}, {1, 0}}), "SCORES:0=2,1=0"},
		{Turn(2), "TURN:2"},
		{Flip(5, 13), "FLIP:5:13"},
		{Hide(5, 9), "HIDE:5:9"},
		{Match(1, 4), "MATCH:1:4"},
		{PlayerDisconnected(2), "PLAYER_DISCONNECTED:2"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestRoomList(t *testing.T) {
	if got := RoomList(nil); got != "ROOM_LIST:" {
		t.Errorf("empty RoomList = %q, want %q", got, "ROOM_LIST:")
	}

	entries := []RoomEntry{
		{Name: "tower", Master: "Player 0", Count: 2, Status: StatusWaiting, Visibility: VisibilityPublic},
		{Name: "moon", Master: "Player 1", Count: 4, Status: StatusInGame, Visibility: VisibilityPrivate},
	}
	want := "ROOM_LIST:tower,Player 0,2,WAITING,PUBLIC;moon,Player 1,4,IN GAME,PRIVATE;"
	if got := RoomList(entries); got != want {
		t.Errorf("RoomList = %q, want %q", got, want)
	}
}
