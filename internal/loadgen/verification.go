package loadgen

import (
	"fmt"

	"github.com/okian/ladder/internal/domain/leaderboard"
	"github.com/okian/ladder/internal/domain/model"
)

// Verify checks that standings hold exactly the expected players with their
// expected scores, carry ranks 1..n, and follow the leaderboard order.
func Verify(standings []leaderboard.Standing, expected map[string]int) error {
	if len(standings) != len(expected) {
		return fmt.Errorf("%w: %d standings, expected %d", ErrVerification, len(standings), len(expected))
	}

	var prev model.Entity
	for i, st := range standings {
		if st.Rank != i+1 {
			return fmt.Errorf("%w: position %d carries rank %d", ErrVerification, i+1, st.Rank)
		}
		want, ok := expected[st.Name]
		if !ok {
			return fmt.Errorf("%w: unexpected player %q", ErrVerification, st.Name)
		}
		if st.Score != want {
			return fmt.Errorf("%w: %q has score %d, expected %d", ErrVerification, st.Name, st.Score, want)
		}
		cur := model.Entity{Name: st.Name, Score: st.Score}
		if i > 0 && !model.Less(prev, cur) {
			return fmt.Errorf("%w: %s ranked above %s", ErrVerification, prev, cur)
		}
		prev = cur
	}
	return nil
}
