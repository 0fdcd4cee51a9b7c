package rupture

import "math"

func sinDegrees(degrees float64) float64 {
	return math.Sin(degrees * math.Pi / 180)
}
