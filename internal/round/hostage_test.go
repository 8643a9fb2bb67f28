package round

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostageCountTable(t *testing.T) {
	cases := []struct {
		players, round, want int
	}{
		{6, 1, 1}, {6, 2, 1}, {6, 3, 1},
		{10, 1, 1}, {10, 3, 1},
		{11, 1, 2}, {11, 2, 1}, {11, 3, 1},
		{21, 1, 2}, {21, 2, 1},
		{22, 1, 3}, {22, 2, 2}, {22, 3, 1},
		{30, 1, 3}, {30, 2, 2}, {30, 4, 1},
	}
	for _, c := range cases {
		got := HostageCount(c.players, c.round)
		assert.Equalf(t, c.want, got, "players=%d round=%d", c.players, c.round)
	}
}
