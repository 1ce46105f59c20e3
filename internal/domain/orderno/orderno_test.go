package orderno

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTime_LastSixDigitsOfMillis(t *testing.T) {
	now := time.UnixMilli(1700000123456)
	assert.Equal(t, "ORD-123456", FromTime(now))

	assert.Equal(t, "ORD-000042", FromTime(time.UnixMilli(5_000_042)))
}

func TestNext_FirstAttemptUsesClock(t *testing.T) {
	g := NewGenerator()
	got, err := g.Next(time.UnixMilli(1700000654321), 0)
	require.NoError(t, err)
	assert.Equal(t, "ORD-654321", got)
	assert.True(t, Valid(got))
}

func TestNext_SameMillisecondWindowCollides(t *testing.T) {
	// 1e6ミリ秒ごとに同じ番号になる（約16分40秒周期）
	g := NewGenerator()
	a, err := g.Next(time.UnixMilli(1700000123456), 0)
	require.NoError(t, err)
	b, err := g.Next(time.UnixMilli(1700001123456), 0)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := g.Next(time.UnixMilli(1700001123456), 1)
	require.NoError(t, err)
	assert.True(t, Valid(c))
}

func TestNext_SkipsReservedOnFirstAttempt(t *testing.T) {
	g := NewGenerator()
	for _, ms := range []int64{1_000_000, 3_111_111, 7_999_999} {
		got, err := g.Next(time.UnixMilli(ms), 0)
		require.NoError(t, err)
		assert.NotContains(t, []string{"ORD-000000", "ORD-111111", "ORD-999999"}, got)
		assert.True(t, Valid(got))
	}
}

func TestNext_RetryIsRandomAndValid(t *testing.T) {
	g := NewGenerator()
	now := time.UnixMilli(1700000123456)
	for i := 1; i <= 50; i++ {
		got, err := g.Next(now, i)
		require.NoError(t, err)
		assert.True(t, Valid(got), got)
	}
}

func TestNext_ReaderFailure(t *testing.T) {
	g := NewGeneratorWithReader(bytes.NewReader(nil))
	_, err := g.Next(time.UnixMilli(1700000123456), 1)
	assert.Error(t, err)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("ORD-000001"))
	assert.False(t, Valid("ORD-12345"))
	assert.False(t, Valid("DEMO-123456"))
}
