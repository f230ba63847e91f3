package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTypist() *Typist {
	return &Typist{
		InputSelector:  "textarea",
		Output:         Selector("#output"),
		KeyDelay:       120 * time.Millisecond,
		PostCharDelay:  time.Millisecond,
		FinalSettle:    time.Millisecond,
		LocatorTimeout: time.Second,
	}
}

func TestTypeAndRead_TypesOneRuneAtATime(t *testing.T) {
	s := newFakeSurface(nil)
	obs := newTestTypist().TypeAndRead(context.Background(), s, "vaa")

	require.NoError(t, obs.Err)
	assert.Equal(t, "VAA", obs.Actual)
	assert.Equal(t, []string{
		"click textarea",
		"type textarea v 120ms",
		"type textarea a 120ms",
		"type textarea a 120ms",
		"text #output",
	}, s.ops)
	assert.Equal(t, 4*time.Millisecond, obs.Elapsed)
}

func TestTypeAndRead_MultibyteInput(t *testing.T) {
	s := newFakeSurface(func(v string) string { return v })
	obs := newTestTypist().TypeAndRead(context.Background(), s, "நன்றி")

	require.NoError(t, obs.Err)
	assert.Equal(t, "நன்றி", obs.Actual)
	assert.Equal(t, 5, s.countOps("type "), "one keystroke per rune, not per byte")
}

func TestTypeAndRead_ConvergesWithBulk(t *testing.T) {
	render := func(v string) string {
		if v == "vanakkam" {
			return "வணக்கம்"
		}
		return v
	}

	typed := newTestTypist().TypeAndRead(context.Background(), newFakeSurface(render), "vanakkam")
	bulk := newTestConverter().Convert(context.Background(), newFakeSurface(render), "vanakkam")

	require.NoError(t, typed.Err)
	require.NoError(t, bulk.Err)
	assert.Equal(t, "வணக்கம்", typed.Actual)
	assert.Equal(t, bulk.Actual, typed.Actual)
}

func TestTypeAndRead_TracksProgress(t *testing.T) {
	typist := newTestTypist()
	typist.TrackProgress = true

	obs := typist.TypeAndRead(context.Background(), newFakeSurface(nil), "abc")
	require.NoError(t, obs.Err)
	assert.Equal(t, []string{"A", "AB", "ABC"}, obs.Progress)
}

func TestTypeAndRead_Faults(t *testing.T) {
	t.Run("focus fails", func(t *testing.T) {
		s := newFakeSurface(nil)
		s.clickErr = errors.New("element is outside of the viewport")
		obs := newTestTypist().TypeAndRead(context.Background(), s, "a")
		assert.Equal(t, "[ERROR: focus input: element is outside of the viewport]", obs.Actual)
	})

	t.Run("output missing", func(t *testing.T) {
		s := newFakeSurface(nil)
		s.textErr = ErrLocatorTimeout
		obs := newTestTypist().TypeAndRead(context.Background(), s, "a")
		assert.Equal(t, TimeoutSentinel, obs.Actual)
		assert.ErrorIs(t, obs.Err, ErrLocatorTimeout)
	})

	t.Run("cancelled mid typing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		typist := newTestTypist()
		typist.PostCharDelay = time.Hour
		obs := typist.TypeAndRead(ctx, newFakeSurface(nil), "abc")
		assert.ErrorIs(t, obs.Err, context.Canceled)
	})
}
