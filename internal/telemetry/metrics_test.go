package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGamesActiveGaugeTracksSetValue(t *testing.T) {
	GamesActive.Set(0)
	GamesActive.Inc()
	GamesActive.Inc()
	assert.Equal(t, float64(2), testutil.ToFloat64(GamesActive))
	GamesActive.Set(0)
}

func TestCommandsTotalCounterIncrementsByLabel(t *testing.T) {
	CommandsTotal.WithLabelValues("LOCK_ROOM", "accepted").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(CommandsTotal.WithLabelValues("LOCK_ROOM", "accepted")))
}
