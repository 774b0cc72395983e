package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aristel/arcana-server/game/lobby"
)

// nopClient satisfies room.Client for seeding test rooms.
type nopClient struct{}

func (nopClient) Send(string) {}
func (nopClient) Close() error { return nil }

func textContent(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return tc.Text
}

func TestNewObserver(t *testing.T) {
	o := NewObserver(lobby.NewRegistry(nil))
	if o.GetMCPServer() == nil {
		t.Fatal("MCP server should be initialized")
	}
}

func TestListRoomsTool(t *testing.T) {
	reg := lobby.NewRegistry(nil)
	r, err := reg.Create("tower", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Join(nopClient{}, ""); err != nil {
		t.Fatalf("join: %v", err)
	}

	o := NewObserver(reg)
	res, err := o.handleListRooms(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListRooms: %v", err)
	}

	text := textContent(t, res)
	if !strings.Contains(text, "tower") || !strings.Contains(text, "1 player(s)") {
		t.Fatalf("unexpected listing: %q", text)
	}
}

func TestRoomStateTool(t *testing.T) {
	reg := lobby.NewRegistry(nil)
	r, _ := reg.Create("tower", "")
	r.Join(nopClient{}, "")
	r.Join(nopClient{}, "")

	o := NewObserver(reg)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"room_id": "tower"}
	res, err := o.handleRoomState(context.Background(), req)
	if err != nil {
		t.Fatalf("handleRoomState: %v", err)
	}
	text := textContent(t, res)
	for _, want := range []string{"Room: tower", "Status: WAITING", "Master: Player 0", "Players (2): 0 1"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in %q", want, text)
		}
	}
}

func TestRoomStateToolUnknownRoom(t *testing.T) {
	o := NewObserver(lobby.NewRegistry(nil))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"room_id": "nowhere"}
	res, err := o.handleRoomState(context.Background(), req)
	if err != nil {
		t.Fatalf("handleRoomState: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result for unknown room")
	}
}
