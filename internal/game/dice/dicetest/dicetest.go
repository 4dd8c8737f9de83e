// Package dicetest provides deterministic dice.Source fakes for tests.
package dicetest

import "sync"

// Faces is a scripted Source that yields the given d6 faces in order, then repeats
// the last face forever. Intn(n) returns face-1, so RollDie reproduces each face exactly.
type Faces struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewFaces returns a Source that replays faces.
//
// Precondition: every face is in [1, 6]; len(faces) >= 1.
func NewFaces(faces ...int) *Faces {
	return &Faces{faces: faces}
}

// Intn returns the next scripted face minus one, clamped into [0, n).
func (f *Faces) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	face := f.faces[len(f.faces)-1]
	if f.next < len(f.faces) {
		face = f.faces[f.next]
		f.next++
	}
	v := face - 1
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Consumed returns how many scripted faces have been drawn.
func (f *Faces) Consumed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next
}
