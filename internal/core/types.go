package core

// Size describes the dimensions of a frame in pixels.
type Size struct {
	W int
	H int
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

// Center returns the integer center point of the frame.
func (s Size) Center() (int, int) { return s.W / 2, s.H / 2 }
