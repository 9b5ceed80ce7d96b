package sim

import (
	"math/rand"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/geom"
)

// Shape is the visual variant of an obstacle. Collision-wise every shape is
// reduced to a single circle on the x/z plane; the tag only matters to the
// rendering collaborator.
type Shape string

const (
	ShapeSphere   Shape = "sphere"
	ShapeCylinder Shape = "cylinder"
	ShapeCone     Shape = "cone"
	ShapeCapsule  Shape = "capsule"
	ShapeDisc     Shape = "disc"
	ShapeBox      Shape = "box"
)

var allShapes = []Shape{ShapeSphere, ShapeCylinder, ShapeCone, ShapeCapsule, ShapeDisc, ShapeBox}

// collisionRadius maps a visual shape to its circular footprint.
var collisionRadius = map[Shape]float64{
	ShapeSphere:   0.50,
	ShapeCylinder: 0.45,
	ShapeCone:     0.45,
	ShapeCapsule:  0.40,
	ShapeDisc:     0.60,
	ShapeBox:      0.55,
}

// obstacle color palette with pick weights; bright colors show up more.
var (
	obstacleColors       = []string{"#ff5050", "#50c8ff", "#ffd750", "#a050ff", "#50ff9e"}
	obstacleColorWeights = []float64{2, 2, 2, 1, 1}
)

// Obstacle is immutable for the match's duration once generated. Guests
// receive the list once over the wire and must never regenerate it.
type Obstacle struct {
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
	Shape  Shape   `json:"shape"`
	Color  string  `json:"color"`
}

// GenerateObstacles places count obstacles by rejection sampling: each
// candidate must keep a minimum distance from the field center and from
// every obstacle placed so far. After ObstaclePlacementTries failed draws
// the last candidate is accepted as-is; degenerate placement is preferable
// to failing the match start.
func GenerateObstacles(rng *rand.Rand, count int, fixed []Shape) []Obstacle {
	if count <= 0 {
		return nil
	}
	if count > MaxObstacles {
		count = MaxObstacles
	}

	// keep obstacles clear of paddle travel lanes
	maxX := FieldHalfWidth - 3.0
	maxZ := FieldHalfDepth - 2.0

	placed := make([]Obstacle, 0, count)
	for i := 0; i < count; i++ {
		shape := allShapes[rng.Intn(len(allShapes))]
		if i < len(fixed) {
			shape = fixed[i]
		}

		var cand Obstacle
		for try := 0; try < ObstaclePlacementTries; try++ {
			cand = Obstacle{
				X:      (rng.Float64()*2 - 1) * maxX,
				Z:      (rng.Float64()*2 - 1) * maxZ,
				Radius: collisionRadius[shape],
				Shape:  shape,
				Color:  obstacleColors[geom.WeightedChoice(rng, obstacleColorWeights)],
			}
			if placementOK(cand, placed) {
				break
			}
		}
		placed = append(placed, cand)
	}
	return placed
}

func placementOK(cand Obstacle, placed []Obstacle) bool {
	if hyp(cand.X, cand.Z) < ObstacleMinCenterDist {
		return false
	}
	for _, o := range placed {
		if hyp(cand.X-o.X, cand.Z-o.Z) < ObstacleMinSeparation {
			return false
		}
	}
	return true
}

func hyp(a, b float64) float64 {
	return geom.Vec3{X: a, Z: b}.HorizontalSpeed()
}
