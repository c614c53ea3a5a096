package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rescale/pkgview/internal/clock"
)

func TestSessionLifecycle(t *testing.T) {
	c := clock.NewManual(0)
	s := NewSession(c)
	assert.Equal(t, Idle, s.State())

	assert.True(t, s.Admit(0, 1, true))
	assert.Equal(t, Active, s.State())

	assert.True(t, s.Admit(100, 1, true))
	assert.Equal(t, Complete, s.State())

	// repeated completion of the same item is dropped
	assert.False(t, s.Admit(100, 1, true))

	// a new item starts over
	assert.True(t, s.Admit(100, 2, true))
	assert.Equal(t, 100, s.Percent())

	s.Reset()
	assert.Equal(t, Idle, s.State())
}

func TestSessionThrottlesMidTicks(t *testing.T) {
	c := clock.NewManual(0)
	s := NewSession(c)

	assert.True(t, s.Admit(0, 1, true))

	c.Advance(50)
	assert.False(t, s.Admit(10, 1, true), "too soon")

	c.Advance(200)
	assert.True(t, s.Admit(10, 1, true))

	c.Advance(300)
	assert.False(t, s.Admit(10, 1, true), "unchanged percent")
	assert.False(t, s.Admit(20, 1, false), "no name")

	// a new item index always draws
	assert.True(t, s.Admit(20, 2, false))
}

func TestSessionFirstTickDraws(t *testing.T) {
	c := clock.NewManual(0)
	s := NewSession(c)
	assert.True(t, s.Admit(40, 3, false))
	assert.Equal(t, "active", s.State().String())
}

func TestSessionFinish(t *testing.T) {
	s := NewSession(clock.NewManual(0))
	s.Activate(0)
	assert.True(t, s.Finish())
	assert.False(t, s.Finish())
	assert.Equal(t, "complete", s.State().String())
	s.Activate(0)
	assert.Equal(t, Active, s.State())
}
