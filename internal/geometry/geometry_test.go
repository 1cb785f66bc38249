package geometry

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Point{0, 0}.Distance(Point{3, 4}), 1e-12)
	assert.Zero(t, Point{7, -2}.Distance(Point{7, -2}))
}

func TestSteer(t *testing.T) {
	tests := []struct {
		name   string
		from   Point
		target Point
		step   float64
		want   Point
	}{
		{"far target is clipped", Point{0, 0}, Point{100, 0}, 20, Point{20, 0}},
		{"near target is returned", Point{0, 0}, Point{3, 4}, 20, Point{3, 4}},
		{"exact step", Point{0, 0}, Point{0, 20}, 20, Point{0, 20}},
		{"diagonal", Point{1, 1}, Point{31, 41}, 10, Point{7, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.Steer(tt.target, tt.step)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestBoundsSample(t *testing.T) {
	b := Bounds{MinX: -10, MinY: 5, MaxX: 30, MaxY: 25}
	assert.Equal(t, 800.0, b.Area())

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		p := b.Sample(rng)
		assert.True(t, b.Contains(p), "sample %v outside %v", p, b)
	}
}

func TestOrbRoundTrip(t *testing.T) {
	p := Point{1.5, -2}
	assert.Equal(t, orb.Point{1.5, -2}, p.Orb())
	assert.Equal(t, p, FromOrb(p.Orb()))

	b := Bounds{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600}
	assert.Equal(t, b, BoundsFromOrb(b.Orb()))
}

func TestRouteBounds(t *testing.T) {
	b := RouteBounds(Point{50, 10}, Point{20, 40}, 5)
	assert.Equal(t, Bounds{MinX: 15, MinY: 5, MaxX: 55, MaxY: 45}, b)
	assert.True(t, b.Contains(Point{50, 10}))
	assert.True(t, b.Contains(Point{20, 40}))
}
