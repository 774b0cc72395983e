// Package engine implements the turn state machine for the memory
// matching game.
//
// A Game tracks the board, the matched mask, the seating order, whose
// turn it is and each seat's score. It is deliberately free of locks,
// timers and I/O: callers (the room layer) serialize access and own the
// mismatch-resolution delay. Every mutating call returns the ordered
// list of Events produced by the transition; the caller translates
// those into protocol lines.
//
// State machine:
//
//	waiting first pick -> waiting second pick -> (match)    same turn
//	                                          -> (mismatch) resolving
//	resolving -> Resolve() -> next seat's turn
//	all cells matched -> game over (terminal)
//
// Reveal silently rejects anything that is not a legal pick for the
// current player: out-of-turn calls, out-of-bounds or already-matched
// cells, re-picking the pending first card, and any pick while a
// mismatch is resolving. A rejected reveal changes nothing and emits
// nothing.
//
// Rules: a matched pair keeps the turn with the same player; a
// mismatch always passes the turn to the next seat in table order.
package engine
