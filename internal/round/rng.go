package round

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// randomIndex returns a cryptographically strong uniform random index in
// [0, n). Used for tie-break leader selection (§4.4.1); the controller's
// Fisher-Yates shuffle (§4.8) has its own crypto/rand helper. Never a
// deterministic PRNG (§9 "role-distribution randomness").
func randomIndex(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("round: randomIndex requires n > 0, got %d", n)
	}
	bi, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("round: crypto/rand failed: %w", err)
	}
	return int(bi.Int64()), nil
}
