// Package scene converts regenerated floor stacks into the scene graph the
// render layer consumes. The graph is Y-up: planar map coordinates (x, y)
// become (X, Z) and heights run along Y.
package scene

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityFloor  EntityType = "floor"
	EntityMarker EntityType = "marker"
)

// Material names the surface an entity is drawn with.
type Material string

const (
	MaterialRetail      Material = "retail"
	MaterialOffice      Material = "office"
	MaterialResidential Material = "residential"
	MaterialMarker      Material = "marker"
)

// Vec3 is a 3D vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BoundingBox defines an axis-aligned bounding box.
type BoundingBox struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Entity is a single element in the scene graph.
type Entity struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	Position   Vec3           `json:"position"`
	Dimensions Vec3           `json:"dimensions"`
	Rotation   [4]float64     `json:"rotation"` // quaternion [x, y, z, w]
	Material   Material       `json:"material"`
	Color      [4]float64     `json:"color"`
	Building   string         `json:"building,omitempty"`
	Level      int            `json:"level"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Graph is the complete scene graph of a scenario.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
	Groups   Groups   `json:"groups"`
}

// Metadata holds scene-level information.
type Metadata struct {
	GeneratedAt string      `json:"generated_at"`
	Buildings   int         `json:"buildings"`
	Bounds      BoundingBox `json:"bounds"`
}

// Groups organizes entity IDs by various axes for fast filtering.
type Groups struct {
	Buildings   map[string][]string     `json:"buildings"`
	Materials   map[Material][]string   `json:"materials"`
	EntityTypes map[EntityType][]string `json:"entity_types"`
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: []Entity{},
		Groups: Groups{
			Buildings:   make(map[string][]string),
			Materials:   make(map[Material][]string),
			EntityTypes: make(map[EntityType][]string),
		},
	}
}
