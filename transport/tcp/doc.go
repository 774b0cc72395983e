// Package tcp is the primary transport: a plain TCP listener speaking
// the newline-delimited protocol the desktop client was written
// against. Each accepted connection gets a lobby session, a buffered
// outbound queue and a dedicated writer goroutine; the accept loop
// never blocks on a slow client.
package tcp
