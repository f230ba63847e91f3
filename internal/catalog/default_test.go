package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Positive, 24)
	assert.Len(t, c.Negative, 10)
	require.NotNil(t, c.UI)

	assert.Equal(t, "vanakkam", c.Positive[0].Input)
	assert.Equal(t, "வணக்கம்", c.Positive[0].Expected)
	assert.Equal(t, "naan varen\nnee inga irukka?", c.Positive[19].Input)
	assert.Equal(t, LengthLong, c.Positive[21].Length)

	var empty *Scenario
	for i := range c.Negative {
		if c.Negative[i].Input == "" {
			empty = &c.Negative[i]
		}
	}
	require.NotNil(t, empty, "the empty input scenario must be present")
	assert.Equal(t, "[expected empty]", empty.Expected)

	assert.Equal(t, "Pos_UI_0001", c.UI.ID)
	assert.Equal(t, c.Positive[0].Expected, c.UI.Expected)
}

func TestDefaultPassesSchema(t *testing.T) {
	assert.NoError(t, Validate(DefaultYAML()))
}

func TestDefaultYAMLIsACopy(t *testing.T) {
	b := DefaultYAML()
	b[0] = '#'
	_, err := Default()
	assert.NoError(t, err)
}
