package source

import "fmt"

// Location names a point in a source file for diagnostics.
type Location struct {
	Filename string
	Pos      Position
}

// NewLocation creates a Location for the given file and position.
func NewLocation(filename string, pos Position) *Location {
	return &Location{Filename: filename, Pos: pos}
}

func (l *Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Pos.Line, l.Pos.Column)
}
