// Package carcassonne searches for complete Carcassonne layouts: every tile
// of a catalogue placed on a fixed board so that all facing edges match,
// every town is closed and no tile is cut off from the rest.
//
// What lives where:
//
//	tile/       Terrain, Side (also used as orientation), Template, Placement,
//	            Board and its JSON Snapshot
//	resolve/    collision-free placement: a clashing tile moves to the first
//	            free cell on the nearest ring around its target
//	cluster/    flood fills: spatial clusters of occupied cells and town
//	            clusters across rotated neighbours
//	fitness/    the four penalty terms and their sum; 0 is the only accepted
//	            score
//	evolve/     the generational search: rank-biased selection, single-point
//	            crossover, move mutation, parallel evaluation, latest-wins
//	            progress mailbox
//	catalogue/  the tile catalogue format and the embedded base game (72 tiles)
//	render/     text art of a board and a live terminal viewer
//	store/      SQLite log of runs, their progress and best boards
//	stream/     websocket fan-out of progress events
//	config/     TOML run files
//	cmd/carcassonne  the command line front end
//
// A layout at a glance (two town caps facing each other):
//
//	┼──────────┼──────────┼
//	│          │          │
//	│        ██│██        │
//	│        ██│██        │
//	│        ██│██        │
//	│          │          │
//	┼──────────┼──────────┼
//
// Quick start:
//
//	go run ./cmd/carcassonne evolve --tui
package carcassonne
