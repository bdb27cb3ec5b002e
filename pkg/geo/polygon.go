package geo

import "math"

// Polygon is a closed polygon defined by its vertices in order.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point) Polygon {
	return Polygon{Vertices: pts}
}

// Footprint returns the rectangle of the given width (along X) and depth
// (along Y) centered on center and turned by a compass heading in degrees.
func Footprint(center Point, width, depth, heading float64) Polygon {
	hw, hd := width/2, depth/2
	angle := HeadingToRadians(heading)
	corners := []Point{
		{-hw, -hd},
		{hw, -hd},
		{hw, hd},
		{-hw, hd},
	}
	for i, c := range corners {
		corners[i] = c.Rotate(angle).Add(center)
	}
	return Polygon{Vertices: corners}
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Y
		area -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (p Polygon) BoundingBox() (Point, Point) {
	if len(p.Vertices) == 0 {
		return Point{}, Point{}
	}
	minP := p.Vertices[0]
	maxP := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		minP.X = math.Min(minP.X, v.X)
		minP.Y = math.Min(minP.Y, v.Y)
		maxP.X = math.Max(maxP.X, v.X)
		maxP.Y = math.Max(maxP.Y, v.Y)
	}
	return minP, maxP
}

// Contains reports whether pt lies inside the polygon (ray casting).
func (p Polygon) Contains(pt Point) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}
