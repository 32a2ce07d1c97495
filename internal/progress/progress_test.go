package progress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarFollowsTracker(t *testing.T) {
	var buf bytes.Buffer
	bar := NewWithWriter("parsing", &buf)
	tracker := bar.Tracker()

	tracker.Add(2)
	tracker.Tick("app.js")
	tracker.Tick("<library>")

	assert.Equal(t, 2, bar.bar.GetMax())
	assert.Equal(t, int64(2), bar.bar.State().CurrentNum)
	bar.FinishSuccess()
}

func TestBarFinishError(t *testing.T) {
	var buf bytes.Buffer
	bar := NewWithWriter("parsing", &buf)
	bar.FinishError(errors.New("boom"))

	assert.Contains(t, buf.String(), "parsing error: boom")
}
