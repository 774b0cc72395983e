// Package websocket bridges browser clients onto the same line
// protocol the TCP transport speaks. Each text frame carries exactly
// one protocol line; the read and write pumps follow the usual
// gorilla/websocket ping/pong pattern.
package websocket
