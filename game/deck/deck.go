// Package deck builds the shuffled pair boards the memory game is
// played on.
package deck

import (
	"fmt"
	"math/rand"
)

// PoolSize is the number of distinct card images shipped with the
// client (0.png through 19.png). A board can never need more than this
// many distinct pairs.
const PoolSize = 20

// Generate returns a board of totalCards cells. It draws totalCards/2
// distinct image ids from the pool without replacement, duplicates each
// once and shuffles the result uniformly, so every image id on the
// board appears exactly twice.
func Generate(totalCards int) ([]int, error) {
	// Fresh source per call: *rand.Rand is not safe for concurrent use
	// and boards are generated from many room goroutines.
	return generate(rand.New(rand.NewSource(rand.Int63())), totalCards)
}

func generate(r *rand.Rand, totalCards int) ([]int, error) {
	if totalCards <= 0 || totalCards%2 != 0 {
		return nil, fmt.Errorf("board size must be a positive even number, got %d", totalCards)
	}
	pairs := totalCards / 2
	if pairs > PoolSize {
		return nil, fmt.Errorf("board needs %d distinct images but only %d are available", pairs, PoolSize)
	}

	ids := r.Perm(PoolSize)[:pairs]

	board := make([]int, 0, totalCards)
	for _, id := range ids {
		board = append(board, id, id)
	}
	r.Shuffle(len(board), func(i, j int) {
		board[i], board[j] = board[j], board[i]
	})
	return board, nil
}
