package core

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(7), NewRNG(7)
	for i := 0; i < 1000; i++ {
		if a.Chance(0.3) != b.Chance(0.3) {
			t.Fatalf("sequences diverged at %d", i)
		}
	}
}

func TestRNGChanceBounds(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 1000; i++ {
		if r.Chance(0) || r.Chance(-1) {
			t.Fatal("non-positive probability must never fire")
		}
		if !r.Chance(1) {
			t.Fatal("probability 1 must always fire")
		}
	}
}
