package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns a probe that serves texts in order and repeats the last.
func sequence(texts ...string) (Probe, *int) {
	calls := 0
	return func() (string, error) {
		i := calls
		calls++
		if i >= len(texts) {
			i = len(texts) - 1
		}
		return texts[i], nil
	}, &calls
}

func TestFixedDelay(t *testing.T) {
	probe, calls := sequence("வணக்கம்")
	start := time.Now()
	text, err := FixedDelay{Wait: 20 * time.Millisecond}.Settle(context.Background(), probe)

	require.NoError(t, err)
	assert.Equal(t, "வணக்கம்", text)
	assert.Equal(t, 1, *calls, "fixed delay reads exactly once")
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestStableText_WaitsForRenderToStopChanging(t *testing.T) {
	probe, calls := sequence("", "வ", "வண", "வணக்கம்", "வணக்கம்", "வணக்கம்")
	st := StableText{Interval: time.Millisecond, Reads: 3, Timeout: time.Second}

	text, err := st.Settle(context.Background(), probe)
	require.NoError(t, err)
	assert.Equal(t, "வணக்கம்", text)
	assert.Equal(t, 6, *calls)
}

func TestStableText_TimeoutReturnsLastRead(t *testing.T) {
	n := 0
	probe := func() (string, error) {
		n++
		return string(rune('a' + n%26)), nil
	}
	st := StableText{Interval: time.Millisecond, Reads: 3, Timeout: 20 * time.Millisecond}

	text, err := st.Settle(context.Background(), probe)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}

func TestStableText_ErrorsUntilElementAppears(t *testing.T) {
	n := 0
	probe := func() (string, error) {
		n++
		if n < 3 {
			return "", ErrLocatorTimeout
		}
		return "நன்றி", nil
	}
	st := StableText{Interval: time.Millisecond, Reads: 2, Timeout: time.Second}

	text, err := st.Settle(context.Background(), probe)
	require.NoError(t, err)
	assert.Equal(t, "நன்றி", text)
}

func TestStableText_NeverFound(t *testing.T) {
	probe := func() (string, error) { return "", ErrLocatorTimeout }
	st := StableText{Interval: time.Millisecond, Reads: 2, Timeout: 10 * time.Millisecond}

	_, err := st.Settle(context.Background(), probe)
	assert.ErrorIs(t, err, ErrLocatorTimeout)
}

func TestStableText_MinWaitCoversSlowRender(t *testing.T) {
	start := time.Now()
	probe := func() (string, error) {
		if time.Since(start) < 90*time.Millisecond {
			return "", nil
		}
		return "வணக்கம்", nil
	}
	st := StableText{Interval: 5 * time.Millisecond, Reads: 3, Timeout: time.Second, MinWait: 150 * time.Millisecond}

	text, err := st.Settle(context.Background(), probe)
	require.NoError(t, err)
	assert.Equal(t, "வணக்கம்", text, "the pre-render text must not settle before MinWait")
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestStableText_MinWaitOutlastsTimeout(t *testing.T) {
	probe, _ := sequence("நன்றி")
	start := time.Now()
	st := StableText{Interval: time.Millisecond, Reads: 2, Timeout: 5 * time.Millisecond, MinWait: 40 * time.Millisecond}

	text, err := st.Settle(context.Background(), probe)
	require.NoError(t, err)
	assert.Equal(t, "நன்றி", text)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestStableText_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	probe, _ := sequence("x")

	_, err := StableText{Interval: time.Hour, Reads: 2, Timeout: time.Hour}.Settle(ctx, probe)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), 0))
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
