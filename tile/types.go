package tile

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for board and model operations.
var (
	// ErrBadDimensions indicates a board with a non-positive width or height.
	ErrBadDimensions = errors.New("tile: board dimensions must be positive")

	// ErrOutOfBounds indicates a position outside the board.
	ErrOutOfBounds = errors.New("tile: position out of bounds")

	// ErrOccupied indicates a placement onto an occupied cell.
	ErrOccupied = errors.New("tile: position already occupied")

	// ErrUnknownSide indicates an unrecognized side name.
	ErrUnknownSide = errors.New("tile: unknown side")

	// ErrUnknownTerrain indicates an unrecognized terrain name.
	ErrUnknownTerrain = errors.New("tile: unknown terrain")
)

// Terrain is the type of a tile edge or structure.
type Terrain uint8

const (
	// Road is a road segment.
	Road Terrain = iota
	// Field is open land; it is also the terrain of every unclaimed side.
	Field
	// Town is a town (city) segment.
	Town
)

var terrainNames = [...]string{Road: "road", Field: "field", Town: "town"}

// String returns the lower-case terrain name.
func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return fmt.Sprintf("Terrain(%d)", uint8(t))
}

// ParseTerrain decodes a terrain name (case-insensitive).
func ParseTerrain(s string) (Terrain, error) {
	for i, name := range terrainNames {
		if strings.EqualFold(s, name) {
			return Terrain(i), nil
		}
	}
	return Field, fmt.Errorf("%w: %q", ErrUnknownTerrain, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Terrain) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Terrain) UnmarshalText(b []byte) error {
	v, err := ParseTerrain(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Pos is an integer grid coordinate. X grows to the right, Y grows downwards.
type Pos struct {
	X, Y int
}

// Step returns the orthogonal neighbour of p in direction s.
func (p Pos) Step(s Side) Pos {
	switch s {
	case Left:
		return Pos{p.X - 1, p.Y}
	case Top:
		return Pos{p.X, p.Y - 1}
	case Right:
		return Pos{p.X + 1, p.Y}
	default:
		return Pos{p.X, p.Y + 1}
	}
}

// String formats p as "x,y".
func (p Pos) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}
