package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistogramAddAndSnapshot(t *testing.T) {
	var h Histogram
	h.Add(10)
	h.Add(10)
	h.Add(255)
	h.Add(1000) // clamps to the top bucket

	snap := h.Snapshot()
	assert.Equal(t, int64(2), snap[10])
	assert.Equal(t, int64(2), snap[255])
}

func TestHistogramClampsNegative(t *testing.T) {
	var h Histogram
	h.Add(-5)

	snap := h.Snapshot()
	assert.Equal(t, int64(1), snap[0])
}
