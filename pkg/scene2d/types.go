package scene2d

// Scene2D is the top-down plan of a scenario for the map layer.
type Scene2D struct {
	Metadata   Metadata        `json:"metadata"`
	Footprints []Footprint2D   `json:"footprints"`
	Buildings  BuildingSummary `json:"buildings"`
	Pending    *[2]float64     `json:"pending,omitempty"`
}

// Metadata holds plan-level summary data.
type Metadata struct {
	Buildings   int           `json:"buildings"`
	Changed     int           `json:"changed"`
	Bounds      [2][2]float64 `json:"bounds"` // [min, max] as [x, y]
	GeneratedAt string        `json:"generated_at"`
}

// Footprint2D is one building outline in map coordinates.
type Footprint2D struct {
	ID        string       `json:"id"`
	Center    [2]float64   `json:"center"`
	Polygon   [][2]float64 `json:"polygon"`
	AreaM2    float64      `json:"area_m2"`
	Zoning    string       `json:"zoning,omitempty"`
	PinNumber string       `json:"pin_number,omitempty"`
	Stories   int          `json:"stories"`
	HeightM   float64      `json:"height_m"`
	Use       string       `json:"use"`
	Changed   bool         `json:"changed"`
	Selected  bool         `json:"selected"`
}

// BuildingSummary holds aggregate building data.
type BuildingSummary struct {
	TotalBuildings int                  `json:"total_buildings"`
	TotalStories   int                  `json:"total_stories"`
	ByZoning       map[string]ZoningSum `json:"by_zoning"`
}

// ZoningSum is the building aggregate for one zoning district.
type ZoningSum struct {
	Buildings   int   `json:"buildings"`
	Stories     int   `json:"stories"`
	TotalVolume int64 `json:"total_volume"`
	MaxStories  int   `json:"max_stories"`
}
