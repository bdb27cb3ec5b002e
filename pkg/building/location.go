package building

// Location is the planar position of a building plus its ground elevation.
// Only drag translation moves it.
type Location struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Translate returns the location moved by (dx, dy). Elevation is unchanged.
func (l Location) Translate(dx, dy float64) Location {
	return Location{X: l.X + dx, Y: l.Y + dy, Z: l.Z}
}
