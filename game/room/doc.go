// Package room owns the authoritative state of one game room: its
// members, the master role, the lobby/game phase and the running
// engine.Game.
//
// Every mutation runs under a single per-room mutex, including the
// deferred mismatch-resolution action, which re-acquires the mutex when
// its timer fires and validates against an epoch counter so a reset or
// teardown in the meantime makes it a no-op. Rooms never hold the
// registry's lock; emptiness is reported through a callback after the
// room lock is released, which keeps the two lock domains independent.
//
// Outbound traffic is a fan-out: the room pushes protocol lines to each
// member's Client, which is expected to queue them without blocking.
// The room therefore never waits on network I/O while holding its lock.
package room
