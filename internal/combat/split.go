package combat

import "math"

const (
	splitAngleOffset = 0.3
	splitDistance    = 0.8
	splitSize        = 0.8
	splitChildren    = 2
)

// SplitParent is the state of a splitting enemy at the moment it dies.
type SplitParent struct {
	Pos        Vec2
	MaxHP      float64
	Size       float64
	Generation int
	MaxSplits  int
}

// SplitChild is the spawn template for one fragment.
type SplitChild struct {
	Pos        Vec2
	HP         float64
	Size       float64
	Generation int
}

// SplitChildren returns the two fragments produced by parent, or nil once the
// parent has reached its generation cap. Fragments sit ±0.3 rad around the
// parent's bearing at 80% of its distance with half its max hp.
func SplitChildren(parent SplitParent) []SplitChild {
	if parent.Generation >= parent.MaxSplits {
		return nil
	}
	bearing := math.Atan2(parent.Pos.Y, parent.Pos.X)
	dist := math.Hypot(parent.Pos.X, parent.Pos.Y) * splitDistance
	hp := parent.MaxHP / 2
	children := make([]SplitChild, 0, splitChildren)
	for _, offset := range [splitChildren]float64{-splitAngleOffset, splitAngleOffset} {
		angle := bearing + offset
		children = append(children, SplitChild{
			Pos:        Vec2{X: math.Cos(angle) * dist, Y: math.Sin(angle) * dist},
			HP:         hp,
			Size:       parent.Size * splitSize,
			Generation: parent.Generation + 1,
		})
	}
	return children
}
