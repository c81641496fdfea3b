package vec

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBox(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z float64
		wantErr bool
	}{
		{"cube", 10, 10, 10, false},
		{"orthorhombic", 3, 4, 5, false},
		{"zero edge", 0, 1, 1, true},
		{"negative edge", 1, -2, 1, true},
		{"nan edge", 1, 1, math.NaN(), true},
		{"inf edge", math.Inf(1), 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBox(tt.x, tt.y, tt.z)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNonPositiveEdge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBoxVolumeAndScale(t *testing.T) {
	b, err := NewBox(2, 3, 4)
	require.NoError(t, err)

	assert.Equal(t, 24.0, b.Volume())
	assert.Equal(t, 2.0, b.MinEdge())

	s := b.Scale(0.5)
	assert.Equal(t, Vec3{1, 1.5, 2}, s.Edges)
	assert.InDelta(t, 3.0, s.Volume(), 1e-12)
}

func TestMinimumImage_Examples(t *testing.T) {
	b := Cube(10)

	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"inside", Vec3{1, -2, 3}, Vec3{1, -2, 3}},
		{"beyond half", Vec3{6, -6, 0}, Vec3{-4, 4, 0}},
		{"plus half maps to minus half", Vec3{5, 0, 0}, Vec3{-5, 0, 0}},
		{"minus half stays", Vec3{-5, 0, 0}, Vec3{-5, 0, 0}},
		{"several boxes away", Vec3{23, -37, 10}, Vec3{3, 3, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinimumImage(b, tt.in)
			assert.True(t, got.ApproxEqualThreshold(tt.want, 1e-12), "got %v, want %v", got, tt.want)
		})
	}
}

func TestMinimumImage_RangeAndIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b, err := NewBox(3.7, 11.2, 0.9)
	require.NoError(t, err)

	for i := 0; i < 10000; i++ {
		d := Vec3{
			(rng.Float64() - 0.5) * 200,
			(rng.Float64() - 0.5) * 200,
			(rng.Float64() - 0.5) * 200,
		}
		m := MinimumImage(b, d)
		for axis := 0; axis < 3; axis++ {
			half := b.Edges[axis] / 2
			require.GreaterOrEqual(t, m[axis], -half)
			require.Less(t, m[axis], half)
			require.LessOrEqual(t, math.Abs(m[axis]), half)
		}
		require.Equal(t, m, MinimumImage(b, m), "minimum image must be idempotent")
	}
}

func TestWrap(t *testing.T) {
	b := Cube(10)

	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"inside", Vec3{1, 2, 3}, Vec3{1, 2, 3}},
		{"upper edge", Vec3{10, 0, 0}, Vec3{0, 0, 0}},
		{"negative", Vec3{-1, -11, -20}, Vec3{9, 9, 0}},
		{"far positive", Vec3{35, 12.5, 99}, Vec3{5, 2.5, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(b, tt.in)
			assert.True(t, got.ApproxEqualThreshold(tt.want, 1e-12), "got %v, want %v", got, tt.want)
		})
	}
}

func TestWrap_RangeAndIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	b, err := NewBox(2.5, 7, 13.3)
	require.NoError(t, err)

	inputs := []Vec3{{-1e-18, -1e-300, 0}, {-2.5, -7, -13.3}}
	for i := 0; i < 10000; i++ {
		inputs = append(inputs, Vec3{
			(rng.Float64() - 0.5) * 1000,
			(rng.Float64() - 0.5) * 1000,
			(rng.Float64() - 0.5) * 1000,
		})
	}

	for _, p := range inputs {
		w := Wrap(b, p)
		require.True(t, b.Contains(w), "wrap(%v) = %v outside box", p, w)
		require.Equal(t, w, Wrap(b, w), "wrap must be idempotent")
	}
}

func TestDisplacement(t *testing.T) {
	b := Cube(10)
	a := Vec3{9.5, 0.5, 5}
	c := Vec3{0.5, 9.5, 5}

	d := Displacement(b, a, c)
	assert.True(t, d.ApproxEqualThreshold(Vec3{-1, 1, 0}, 1e-12), "got %v", d)
	assert.InDelta(t, math.Sqrt2, d.Len(), 1e-12)
}

func BenchmarkMinimumImage(b *testing.B) {
	box := Cube(10)
	d := Vec3{6.1, -7.3, 2.2}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MinimumImage(box, d)
	}
}
