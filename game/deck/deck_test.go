package deck

import (
	"math/rand"
	"testing"
)

func TestGeneratePairCounts(t *testing.T) {
	for _, players := range []int{2, 3, 4} {
		total := players * 10
		board, err := Generate(total)
		if err != nil {
			t.Fatalf("Generate(%d) returned error: %v", total, err)
		}
		if len(board) != total {
			t.Fatalf("Generate(%d) returned %d cells", total, len(board))
		}

		counts := make(map[int]int)
		for _, id := range board {
			if id < 0 || id >= PoolSize {
				t.Fatalf("image id %d outside pool [0,%d)", id, PoolSize)
			}
			counts[id]++
		}
		if len(counts) != total/2 {
			t.Errorf("Generate(%d) used %d distinct images, want %d", total, len(counts), total/2)
		}
		for id, n := range counts {
			if n != 2 {
				t.Errorf("image id %d appears %d times, want exactly 2", id, n)
			}
		}
	}
}

func TestGenerateDistinctImagesPerPair(t *testing.T) {
	// A full 4-player board consumes the entire pool, so the ids must
	// be a permutation of 0..19 each doubled.
	board, err := Generate(40)
	if err != nil {
		t.Fatalf("Generate(40): %v", err)
	}
	seen := make(map[int]bool)
	for _, id := range board {
		seen[id] = true
	}
	if len(seen) != PoolSize {
		t.Errorf("full board used %d distinct images, want %d", len(seen), PoolSize)
	}
}

func TestGenerateRejectsBadSizes(t *testing.T) {
	for _, total := range []int{0, -2, 7, 2 * (PoolSize + 1)} {
		if _, err := Generate(total); err == nil {
			t.Errorf("Generate(%d) succeeded, want error", total)
		}
	}
}

func TestGenerateSeedsProduceDifferentOrderings(t *testing.T) {
	a, err := generate(rand.New(rand.NewSource(1)), 20)
	if err != nil {
		t.Fatal(err)
	}
	b, err := generate(rand.New(rand.NewSource(2)), 20)
	if err != nil {
		t.Fatal(err)
	}

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical boards")
	}
}
