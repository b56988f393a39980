package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTimeline(t *testing.T) {
	w := hourlySeries(100, 200)
	w.Precipitation[100] = 4.2

	points := BuildTimeline(w, testNow)

	require.Len(t, points, 48+168)
	assert.Equal(t, w.Times[52], points[0].Time)
	assert.False(t, points[0].IsForecast)
	assert.False(t, points[47].IsForecast)
	assert.True(t, points[48].IsForecast)
	assert.True(t, points[48].Time.Equal(testNow))
	assert.InDelta(t, 4.2, points[48].Precipitation, 1e-9)
}

func TestBuildTimeline_ClampsToSeries(t *testing.T) {
	w := hourlySeries(10, 5)

	points := BuildTimeline(w, testNow)

	require.Len(t, points, 15)
	assert.False(t, points[9].IsForecast)
	assert.True(t, points[10].IsForecast)
}

func TestBuildTimeline_Empty(t *testing.T) {
	points := BuildTimeline(WeatherSeries{}, testNow)

	assert.NotNil(t, points)
	assert.Empty(t, points)
}
