package tcp

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/aristel/arcana-server/game/lobby"
)

func startServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := NewServer("", lobby.NewRegistry(nil), nil)
	go srv.Serve(ctx, ln)
	return ln.Addr().String()
}

func dial(t *testing.T, addr string) (net.Conn, *bufio.Scanner) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, bufio.NewScanner(conn)
}

func readLine(t *testing.T, conn net.Conn, sc *bufio.Scanner) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if !sc.Scan() {
		t.Fatalf("no line: %v", sc.Err())
	}
	return sc.Text()
}

func TestCreateOverTCP(t *testing.T) {
	addr := startServer(t)
	conn, sc := dial(t, addr)

	if _, err := conn.Write([]byte("CREATE:tower\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := []string{
		"MSG:Room 'tower' created.",
		"MSG:Player 0 connected.",
		"MSG:Current Room Master is Player 0",
		"ROOM_STATE:tower:0:1:0",
		"JOINED:0",
		"MSG:You are the Room Master!",
	}
	for _, w := range want {
		if got := readLine(t, conn, sc); got != w {
			t.Fatalf("got %q, want %q", got, w)
		}
	}
}

func TestTwoClientsSeeEachOther(t *testing.T) {
	addr := startServer(t)
	c1, sc1 := dial(t, addr)
	c2, sc2 := dial(t, addr)

	c1.Write([]byte("CREATE:tower\n"))
	// Drain c1's join burst before the second client arrives.
	for i := 0; i < 6; i++ {
		readLine(t, c1, sc1)
	}

	c2.Write([]byte("JOIN:tower\n"))
	if got := readLine(t, c1, sc1); got != "MSG:Player 1 connected." {
		t.Fatalf("c1 got %q", got)
	}
	want := []string{
		"MSG:Player 1 connected.",
		"MSG:Current Room Master is Player 0",
		"ROOM_STATE:tower:0:2:0,1",
		"JOINED:1",
	}
	for _, w := range want {
		if got := readLine(t, c2, sc2); got != w {
			t.Fatalf("c2 got %q, want %q", got, w)
		}
	}
}

func TestDisconnectIsImplicitLeave(t *testing.T) {
	addr := startServer(t)
	c1, sc1 := dial(t, addr)
	c2, sc2 := dial(t, addr)

	c1.Write([]byte("CREATE:tower\n"))
	for i := 0; i < 6; i++ {
		readLine(t, c1, sc1)
	}
	c2.Write([]byte("JOIN:tower\n"))
	for i := 0; i < 4; i++ {
		readLine(t, c2, sc2)
	}
	// c1 sees the same join burst: connected, master, room state.
	for i := 0; i < 3; i++ {
		readLine(t, c1, sc1)
	}

	c2.Close()

	if got := readLine(t, c1, sc1); got != "MSG:Player 1 left the room." {
		t.Fatalf("got %q, want leave MSG", got)
	}
}

func TestKickedClientReadsKickedBeforeEOF(t *testing.T) {
	addr := startServer(t)
	master, sc1 := dial(t, addr)
	victim, sc2 := dial(t, addr)

	master.Write([]byte("CREATE:tower\n"))
	for i := 0; i < 6; i++ {
		readLine(t, master, sc1)
	}
	victim.Write([]byte("JOIN:tower\n"))
	for i := 0; i < 4; i++ {
		readLine(t, victim, sc2)
	}
	for i := 0; i < 3; i++ {
		readLine(t, master, sc1)
	}

	master.Write([]byte("KICK:1\n"))

	// The server disconnects the target right after notifying it; the
	// notification must still arrive before the socket closes.
	victim.SetReadDeadline(time.Now().Add(2 * time.Second))
	got := false
	for sc2.Scan() {
		if sc2.Text() == "KICKED" {
			got = true
			break
		}
	}
	if !got {
		t.Fatalf("socket closed without KICKED (err=%v)", sc2.Err())
	}
}

func TestUnknownCommandKeepsConnectionAlive(t *testing.T) {
	addr := startServer(t)
	conn, sc := dial(t, addr)

	conn.Write([]byte("NONSENSE:1:2\nGET_ROOMS\n"))

	if got := readLine(t, conn, sc); got != "ROOM_LIST:" {
		t.Fatalf("got %q, want ROOM_LIST:", got)
	}
}
