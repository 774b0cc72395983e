// Command arcanabot is a small exercise client for the memory game
// server. It connects over TCP, creates or joins a room, and plays
// random picks whenever it holds the turn. Run a couple of instances
// against a dev server to generate traffic.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"strconv"
	"strings"
	"time"
)

var (
	addr     = flag.String("addr", "localhost:12345", "Server address")
	roomName = flag.String("room", "bots", "Room to create or join")
	password = flag.String("password", "", "Room password")
	create   = flag.Bool("create", false, "Create the room instead of joining")
	start    = flag.Bool("start", false, "Start the game once a second player is present")
	think    = flag.Duration("think", 500*time.Millisecond, "Pause before each pick")
)

// bot tracks just enough game state to make legal picks.
type bot struct {
	conn net.Conn

	myID    int
	total   int
	matched map[int]bool
	faceUp  []int
	myTurn  bool
	players int
	started bool
}

func main() {
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()

	b := &bot{conn: conn, myID: -1}

	if *create {
		b.send("CREATE:" + *roomName + passwordSuffix())
	} else {
		b.send("JOIN:" + *roomName + passwordSuffix())
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		b.handle(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("connection lost: %v", err)
	}
	log.Println("server closed the connection")
}

func passwordSuffix() string {
	if *password == "" {
		return ""
	}
	return ":" + *password
}

func (b *bot) send(line string) {
	log.Printf(">> %s", line)
	fmt.Fprintf(b.conn, "%s\n", line)
}

func (b *bot) handle(line string) {
	log.Printf("<< %s", line)
	parts := strings.Split(line, ":")

	switch parts[0] {
	case "JOINED":
		b.myID, _ = strconv.Atoi(parts[1])

	case "ERROR":
		log.Fatalf("rejected: %s", parts[1])

	case "ROOM_STATE":
		if len(parts) >= 4 {
			b.players, _ = strconv.Atoi(parts[3])
		}
		if *start && !b.started && b.players >= 2 {
			b.started = true
			b.send("START")
		}

	case "GAME_START", "GAME_INIT":
		b.total, _ = strconv.Atoi(parts[1])
		b.matched = make(map[int]bool)
		b.faceUp = nil

	case "TURN":
		turn, _ := strconv.Atoi(parts[1])
		b.faceUp = nil
		b.myTurn = turn == b.myID
		if b.myTurn {
			b.pick()
		}

	case "FLIP":
		card, _ := strconv.Atoi(parts[1])
		b.faceUp = append(b.faceUp, card)
		// Our first card is up, pick the second.
		if b.myTurn && len(b.faceUp) == 1 {
			b.pick()
		}

	case "MATCH":
		for _, c := range b.faceUp {
			b.matched[c] = true
		}
		b.faceUp = nil

	case "HIDE":
		b.faceUp = nil

	case "GAME_OVER":
		log.Println("game over")
		b.myTurn = false
		b.started = false
	}
}

// pick plays a random card that is neither matched nor already face
// up this turn.
func (b *bot) pick() {
	var candidates []int
	for c := 0; c < b.total; c++ {
		if b.matched[c] || contains(b.faceUp, c) {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return
	}
	time.Sleep(*think)
	b.send("CLICK:" + strconv.Itoa(candidates[rand.Intn(len(candidates))]))
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
