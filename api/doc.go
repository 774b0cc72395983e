// Package api provides the HTTP side of the server: a small read-only
// REST surface over the room registry, the WebSocket endpoint, and a
// health check. Gameplay itself runs over the line protocol; the API
// exists for dashboards and monitoring.
package api
