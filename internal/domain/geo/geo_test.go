package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-directory-service/internal/error/errs"
)

var (
	moscow = Point{Latitude: 55.7558, Longitude: 37.6173}
	spb    = Point{Latitude: 59.9343, Longitude: 30.3351}
)

func TestDistanceKm(t *testing.T) {
	d := DistanceKm(moscow, spb)
	// 莫斯科到圣彼得堡大约 634 km
	assert.InDelta(t, 634, d, 5)
	assert.InDelta(t, d, DistanceKm(spb, moscow), 1e-9)
}

func TestDistanceSamePointIsZero(t *testing.T) {
	for _, p := range []Point{moscow, spb, {Latitude: 54.9833, Longitude: 82.8958}, {Latitude: 90, Longitude: 0}} {
		d := DistanceKm(p, p)
		require.False(t, math.IsNaN(d), "distance must not be NaN for %v", p)
		assert.Equal(t, 0.0, d)
	}
}

func TestWithinSamePointAnyPositiveRadius(t *testing.T) {
	excluded := 0
	for lat := -90.0; lat <= 90; lat += 0.37 {
		for lon := -180.0; lon <= 180; lon += 1.13 {
			p := Point{Latitude: lat, Longitude: lon}
			if !Within(p, p, 1e-9) {
				excluded++
			}
		}
	}
	assert.Zero(t, excluded)
	assert.False(t, Within(moscow, moscow, 0), "zero radius excludes even the center")
}

func TestWithinBoundaryIsExclusive(t *testing.T) {
	d := DistanceKm(moscow, spb)

	assert.False(t, Within(moscow, spb, d), "point exactly on the boundary is excluded")
	assert.True(t, Within(moscow, spb, d+1e-6))
	assert.False(t, Within(moscow, spb, d-1e-6))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(1.0000000000000002))
	assert.Equal(t, -1.0, Clamp(-1.5))
	assert.Equal(t, 0.25, Clamp(0.25))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, moscow.Validate())
	assert.NoError(t, ValidateRadius(10))

	err := Point{Latitude: math.NaN(), Longitude: 0}.Validate()
	assert.True(t, errors.Is(err, errs.ErrInvalidGeometry))

	err = Point{Latitude: 0, Longitude: math.Inf(1)}.Validate()
	assert.True(t, errors.Is(err, errs.ErrInvalidGeometry))

	assert.True(t, errors.Is(ValidateRadius(math.Inf(-1)), errs.ErrInvalidGeometry))
}

func TestWithinArgs(t *testing.T) {
	args := WithinArgs(moscow, 12.5)
	assert.Equal(t, []interface{}{55.7558, 37.6173, 55.7558, 37.6173, 55.7558, 12.5}, args)
}
