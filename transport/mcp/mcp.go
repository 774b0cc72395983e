package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aristel/arcana-server/game/lobby"
	"github.com/aristel/arcana-server/game/room"
)

// Observer exposes read-only lobby inspection over MCP. Gameplay stays
// on the line protocol; these tools exist so an agent (or an operator's
// assistant) can look at the running server.
type Observer struct {
	reg       *lobby.Registry
	mcpServer *server.MCPServer
}

// NewObserver creates the MCP surface over the registry.
func NewObserver(reg *lobby.Registry) *Observer {
	o := &Observer{reg: reg}
	o.initMCPServer()
	return o
}

func (o *Observer) initMCPServer() {
	o.mcpServer = server.NewMCPServer(
		"Arcana Memory Game Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Arcana Memory Game Server - MCP Interface

Read-only inspection of the running room coordinator. Gameplay itself
happens over the TCP/WebSocket line protocol, not over MCP.

AVAILABLE TOOLS:
- list_rooms: List every open room with its status
- room_state: Detailed membership snapshot of one room`),
	)

	o.registerTools()
}

func (o *Observer) registerTools() {
	o.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all open rooms with master, player count, phase and visibility",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, o.handleListRooms)

	o.mcpServer.AddTool(mcp.Tool{
		Name:        "room_state",
		Description: "Get the membership snapshot of a specific room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room identifier as shown by list_rooms",
				},
			},
			Required: []string{"room_id"},
		},
	}, o.handleRoomState)
}

// GetMCPServer returns the underlying MCP server for serving.
func (o *Observer) GetMCPServer() *server.MCPServer {
	return o.mcpServer
}

func (o *Observer) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	states := o.reg.Describe()

	var b strings.Builder
	fmt.Fprintf(&b, "Open Rooms (%d):\n\n", len(states))
	for _, s := range states {
		visibility := "public"
		if s.Private {
			visibility = "private"
		}
		fmt.Fprintf(&b, "- %s: %d player(s), master Player %d, %s, %s\n",
			s.RoomID, s.PlayerCount, s.MasterID, s.Status, visibility)
	}
	if len(states) == 0 {
		b.WriteString("(no rooms open)\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (o *Observer) handleRoomState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)
	if roomID == "" {
		return mcp.NewToolResultError("room_id is required"), nil
	}

	r, ok := o.reg.Find(roomID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("room %q does not exist", roomID)), nil
	}

	return mcp.NewToolResultText(formatRoomState(r.Describe())), nil
}

func formatRoomState(s room.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Room: %s\n", s.RoomID)
	fmt.Fprintf(&b, "Status: %s\n", s.Status)
	fmt.Fprintf(&b, "Private: %v\n", s.Private)
	fmt.Fprintf(&b, "Master: Player %d\n", s.MasterID)
	fmt.Fprintf(&b, "Players (%d):", s.PlayerCount)
	for _, id := range s.Players {
		fmt.Fprintf(&b, " %d", id)
	}
	b.WriteString("\n")
	return b.String()
}
