// Package mcp provides a Model Context Protocol surface over the room
// registry.
//
// The tools are deliberately read-only:
//   - list_rooms: every open room with status and visibility
//   - room_state: membership snapshot of one room
//
// Gameplay commands stay on the TCP/WebSocket line protocol; MCP is an
// inspection side-channel, typically mounted at /mcp on the HTTP
// server or run in stdio mode via the "mcp" subcommand.
package mcp
