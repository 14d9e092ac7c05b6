// Package render presents tile boards as text.
//
// ASCII writes a board as box-drawing art, six text rows (a separator and
// five body rows) and eleven columns per cell, suitable for logs and
// terminals that cannot run a full-screen UI.
//
// Viewer is a live tcell view of a running search: a status line with the
// current score and the best board of the latest generation, redrawn
// whenever the engine publishes progress.
package render
