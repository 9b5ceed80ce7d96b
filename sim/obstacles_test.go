package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateObstaclesPlacement(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for run := 0; run < 50; run++ {
		obs := GenerateObstacles(rng, 3, nil)
		require.Len(t, obs, 3)

		for i, o := range obs {
			assert.Greater(t, o.Radius, 0.0)
			assert.NotEmpty(t, o.Color)
			assert.GreaterOrEqual(t, math.Hypot(o.X, o.Z), ObstacleMinCenterDist,
				"run %d obstacle %d too close to center", run, i)
			assert.LessOrEqual(t, math.Abs(o.X), FieldHalfWidth-3.0)
			assert.LessOrEqual(t, math.Abs(o.Z), FieldHalfDepth-2.0)
			for j := 0; j < i; j++ {
				sep := math.Hypot(o.X-obs[j].X, o.Z-obs[j].Z)
				assert.GreaterOrEqual(t, sep, ObstacleMinSeparation,
					"run %d obstacles %d/%d overlap", run, i, j)
			}
		}
	}
}

func TestGenerateObstaclesCount(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	assert.Nil(t, GenerateObstacles(rng, 0, nil))
	assert.Len(t, GenerateObstacles(rng, 1, nil), 1)
	// capped at the maximum
	assert.Len(t, GenerateObstacles(rng, 9, nil), MaxObstacles)
}

func TestGenerateObstaclesFixedShapes(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	fixed := []Shape{ShapeBox, ShapeDisc}
	obs := GenerateObstacles(rng, 3, fixed)
	require.Len(t, obs, 3)
	assert.Equal(t, ShapeBox, obs[0].Shape)
	assert.Equal(t, ShapeDisc, obs[1].Shape)
	assert.Equal(t, collisionRadius[ShapeBox], obs[0].Radius)
}

func TestSetObstaclesLatches(t *testing.T) {
	e := newTestEngine(t, twoPlayerConfig(), WithObstacles(nil))
	assert.False(t, e.ObstaclesBuilt())

	first := []Obstacle{{X: 3, Z: 1, Radius: 0.5, Shape: ShapeSphere, Color: "#50c8ff"}}
	e.SetObstacles(first)
	require.True(t, e.ObstaclesBuilt())
	assert.Equal(t, first, e.Obstacles())

	e.SetObstacles([]Obstacle{{X: -3, Z: -1, Radius: 0.5, Shape: ShapeBox, Color: "#ffd750"}})
	assert.Equal(t, first, e.Obstacles(), "later lists are ignored once built")
}

func TestHostEngineGeneratesObstacles(t *testing.T) {
	cfg := twoPlayerConfig()
	cfg.ObstacleCount = 2
	e := newTestEngine(t, cfg)
	assert.True(t, e.ObstaclesBuilt())
	assert.Len(t, e.Obstacles(), 2)
}
