// Package lobby ties connections to rooms.
//
// Registry is the process-wide directory of rooms. Its lock only
// guards the map itself: listing snapshots room pointers and then asks
// each room for its summary without holding the registry lock, so
// registry and room exclusion domains never nest.
//
// Session is the per-connection command processor shared by the TCP
// and WebSocket transports. It parses one command line at a time,
// dispatches to the registry or the current room, and answers policy
// rejections on the requesting connection only. A Session is driven by
// a single reader goroutine and needs no locking of its own.
package lobby
