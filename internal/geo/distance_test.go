package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/xoxo-backend/internal/geo"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	newYork := geo.Point{Lat: 40.0, Lng: -74.0}
	nearby := geo.Point{Lat: 40.01, Lng: -74.01}

	t.Run("it should be zero for the same point", func(t *testing.T) {
		require.Equal(t, 0.0, geo.Distance(newYork, newYork))
		require.Equal(t, 0.0, geo.Distance(geo.Point{Lat: -90, Lng: 180}, geo.Point{Lat: -90, Lng: 180}))
	})

	t.Run("it should be symmetric", func(t *testing.T) {
		points := []geo.Point{
			newYork, nearby,
			{Lat: 51.5074, Lng: -0.1278},
			{Lat: -33.8688, Lng: 151.2093},
			{Lat: 0, Lng: 179.9},
			{Lat: 0, Lng: -179.9},
			{Lat: 89.9, Lng: 0},
		}
		for _, a := range points {
			for _, b := range points {
				require.Equal(t, geo.Distance(a, b), geo.Distance(b, a))
			}
		}
	})

	t.Run("it should measure about 1.4 km between the two test users", func(t *testing.T) {
		require.InDelta(t, 1.40, geo.Distance(newYork, nearby), 0.01)
	})

	t.Run("it should measure long distances", func(t *testing.T) {
		london := geo.Point{Lat: 51.5074, Lng: -0.1278}
		paris := geo.Point{Lat: 48.8566, Lng: 2.3522}
		require.InDelta(t, 343.5, geo.Distance(london, paris), 1.0)
	})

	t.Run("it should cross the antimeridian the short way", func(t *testing.T) {
		d := geo.Distance(geo.Point{Lat: 0, Lng: 179.9}, geo.Point{Lat: 0, Lng: -179.9})
		require.InDelta(t, 22.24, d, 0.05)
	})

	t.Run("it should stay finite for antipodal points", func(t *testing.T) {
		d := geo.Distance(geo.Point{Lat: 0, Lng: 0}, geo.Point{Lat: 0, Lng: 180})
		require.False(t, math.IsNaN(d))
		require.InDelta(t, math.Pi*geo.EarthRadiusKM, d, 0.001)
	})
}

func TestPointValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, geo.Point{Lat: 90, Lng: 180}.Validate())
	require.NoError(t, geo.Point{Lat: -90, Lng: -180}.Validate())
	require.ErrorIs(t, geo.Point{Lat: 90.0001, Lng: 0}.Validate(), geo.ErrLatitudeRange)
	require.ErrorIs(t, geo.Point{Lat: 0, Lng: -180.5}.Validate(), geo.ErrLongitudeRange)
	require.ErrorIs(t, geo.Point{Lat: math.NaN(), Lng: 0}.Validate(), geo.ErrLatitudeRange)
}

func TestRound2(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1.4, geo.Round2(1.40071))
	require.Equal(t, 2.35, geo.Round2(2.349))
}
