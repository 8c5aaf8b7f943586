package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionTurns(t *testing.T) {
	for _, d := range Directions {
		assert.Equal(t, d, d.Next().Prev())
		assert.Equal(t, d, d.Next().Next().Next().Next())
		assert.Equal(t, d.Next().Next(), d.Opposite())
	}
	assert.Equal(t, North, West.Next())
	assert.Equal(t, West, North.Prev())
}

func TestPositionStep(t *testing.T) {
	p := Position{X: 2, Y: 2}
	assert.Equal(t, Position{X: 2, Y: 1}, p.Step(North))
	assert.Equal(t, Position{X: 3, Y: 2}, p.Step(East))
	assert.Equal(t, Position{X: 2, Y: 3}, p.Step(South))
	assert.Equal(t, Position{X: 1, Y: 2}, p.Step(West))
}

func TestPositionDirectionTo(t *testing.T) {
	p := Position{X: 1, Y: 1}
	for _, d := range Directions {
		got, ok := p.DirectionTo(p.Step(d))
		require.True(t, ok)
		assert.Equal(t, d, got)
	}

	_, ok := p.DirectionTo(Position{X: 2, Y: 2})
	assert.False(t, ok)
	_, ok = p.DirectionTo(p)
	assert.False(t, ok)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("south")
	require.NoError(t, err)
	assert.Equal(t, South, d)

	_, err = ParseDirection("up")
	assert.Error(t, err)
}
