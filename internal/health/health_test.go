package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T) *State {
	t.Helper()
	s, err := New(Config{MaxFailures: 3, MaxDowntime: 20}, nil)
	require.NoError(t, err)
	return s
}

func TestNewValidatesThresholds(t *testing.T) {
	_, err := New(Config{MaxFailures: 0, MaxDowntime: 20}, nil)
	assert.Error(t, err, "zero lock threshold must be rejected")

	_, err = New(Config{MaxFailures: 5, MaxDowntime: 5}, nil)
	assert.Error(t, err, "down threshold must exceed lock threshold")

	_, err = New(Config{MaxFailures: 5, MaxDowntime: 3}, nil)
	assert.Error(t, err, "inverted thresholds must be rejected")
}

func TestCounterIncrementsByOnePerFailedRound(t *testing.T) {
	s := newState(t)

	for i := 1; i <= 10; i++ {
		s.RecordFailure()
		assert.Equal(t, i, s.FailureCount(), "counter must increase by exactly 1 per failed round")
	}
}

func TestGatesEngageAtThresholds(t *testing.T) {
	s := newState(t)

	s.RecordFailure()
	s.RecordFailure()
	assert.False(t, s.Locked(), "locked must stay clear below the threshold")
	assert.False(t, s.Down())

	s.RecordFailure() // third failure, lock threshold
	assert.True(t, s.Locked(), "locked must engage exactly at the threshold")
	assert.False(t, s.Down(), "down must not engage at the lock threshold")

	for i := 4; i < 20; i++ {
		s.RecordFailure()
		assert.False(t, s.Down(), "down must stay clear below its threshold (round %d)", i)
	}

	s.RecordFailure() // twentieth failure, down threshold
	assert.True(t, s.Down(), "down must engage exactly at the threshold")
	assert.True(t, s.Locked(), "down implies locked was already engaged")
}

func TestSuccessClearsEverythingInOneStep(t *testing.T) {
	s := newState(t)
	for i := 0; i < 25; i++ {
		s.RecordFailure()
	}
	require.True(t, s.Down())
	require.True(t, s.Locked())

	s.RecordSuccess()

	assert.Equal(t, 0, s.FailureCount())
	assert.False(t, s.Locked())
	assert.False(t, s.Down())
}

func TestManualReset(t *testing.T) {
	s := newState(t)
	for i := 0; i < 5; i++ {
		s.RecordFailure()
	}
	require.True(t, s.Locked())

	s.Reset()

	assert.Equal(t, 0, s.FailureCount())
	assert.False(t, s.Locked())
	assert.False(t, s.Down())
}

func TestStatusSnapshot(t *testing.T) {
	s := newState(t)
	s.RecordFailure()
	s.RecordFailure()
	s.RecordFailure()

	status := s.Status()
	assert.Equal(t, 3, status.FailureCount)
	assert.True(t, status.IsTransactionsLocked)
	assert.False(t, status.IsDown)
	assert.Equal(t, 3, status.MaxFailures)
	assert.Equal(t, 20, status.MaxDowntime)
	assert.Equal(t, "unstable", status.UpstreamStatus())
}
