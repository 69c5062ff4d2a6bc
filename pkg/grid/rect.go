package grid

// Rect is an integer rectangle in grid cells. X grows to the right, Y grows
// downward, and W/H are spans in cells.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Intersects reports whether r and o share at least one cell.
// Rectangles whose edges only touch do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return !(r.Y >= o.Bottom() || r.Bottom() <= o.Y || r.Right() <= o.X || r.X >= o.Right())
}

// Touches reports whether r and o intersect once each is padded by half a
// cell on every side, i.e. they overlap or share an edge or corner.
func (r Rect) Touches(o Rect) bool {
	return !(r.Y > o.Bottom() || r.Bottom() < o.Y || r.Right() < o.X || r.X > o.Right())
}

// Area returns the number of cells covered by r.
func (r Rect) Area() int { return r.W * r.H }
