package tile

import (
	"fmt"
	"strings"
)

// Side is one of the four tile sides. The same type is used as an
// orientation: the rotation that brings a template's Left side to Side.
type Side uint8

const (
	// Left is the west side, and the identity orientation.
	Left Side = iota
	// Top is the north side, and a 90° clockwise rotation.
	Top
	// Right is the east side, and a 180° rotation.
	Right
	// Bottom is the south side, and a 270° clockwise rotation.
	Bottom
)

// Sides lists all sides in cycle order Left→Top→Right→Bottom.
var Sides = [4]Side{Left, Top, Right, Bottom}

var sideNames = [...]string{Left: "left", Top: "top", Right: "right", Bottom: "bottom"}

// rotation is the composition table: rotation[s][o] is side s turned by o.
var rotation = [4][4]Side{
	Left:   {Left, Top, Right, Bottom},
	Top:    {Top, Right, Bottom, Left},
	Right:  {Right, Bottom, Left, Top},
	Bottom: {Bottom, Left, Top, Right},
}

// Rotate turns s clockwise by orientation o.
func (s Side) Rotate(o Side) Side {
	return rotation[s&3][o&3]
}

// Inverse returns the orientation that undoes s.
func (s Side) Inverse() Side {
	return (4 - s&3) & 3
}

// Opposite returns the side facing s across a tile.
func (s Side) Opposite() Side {
	return s.Rotate(Right)
}

// String returns the lower-case side name.
func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return fmt.Sprintf("Side(%d)", uint8(s))
}

// ParseSide decodes a side name (case-insensitive).
func ParseSide(s string) (Side, error) {
	for i, name := range sideNames {
		if strings.EqualFold(s, name) {
			return Side(i), nil
		}
	}
	return Left, fmt.Errorf("%w: %q", ErrUnknownSide, s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Absolute maps a tile-local structure side to the board side it faces once
// the tile is placed with the given orientation.
func Absolute(structureSide, orientation Side) Side {
	return structureSide.Rotate(orientation)
}
