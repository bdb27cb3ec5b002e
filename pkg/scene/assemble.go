package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/geo"
	"github.com/CORaleigh/NextCenturyCities/pkg/massing"
	"github.com/CORaleigh/NextCenturyCities/pkg/units"
)

// MarkerID is the entity id of the selection marker.
const MarkerID = "selection-marker"

const markerSize = 2.0 // meters

var materials = map[building.UseType]Material{
	building.Retail:      MaterialRetail,
	building.Office:      MaterialOffice,
	building.Residential: MaterialResidential,
}

// Assemble converts floor stacks into a scene graph. marker may be nil
// when nothing is selected.
func Assemble(stacks [][]massing.FloorVolume, marker *massing.Marker) *Graph {
	g := NewGraph()

	for _, stack := range stacks {
		if len(stack) == 0 {
			continue
		}
		assembleStack(stack, g)
		g.Metadata.Buildings++
	}
	if marker != nil {
		assembleMarker(*marker, g)
	}

	g.Metadata.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	g.Metadata.Bounds = computeBounds(g.Entities)
	return g
}

// FloorID returns the entity id of one floor of a building.
func FloorID(id building.ID, level int) string {
	return fmt.Sprintf("%s/floor-%02d", id, level)
}

func assembleStack(stack []massing.FloorVolume, g *Graph) {
	for _, f := range stack {
		addEntity(g, Entity{
			ID:   FloorID(f.BuildingID, f.Level),
			Type: EntityFloor,
			Position: Vec3{
				X: f.X,
				Y: f.BaseZ,
				Z: f.Y,
			},
			Dimensions: Vec3{
				X: f.FootprintWidth,
				Y: f.FloorHeight,
				Z: f.FootprintDepth,
			},
			Rotation: yawQuat(geo.HeadingToRadians(f.Heading)),
			Material: materials[f.ColorClass],
			Color:    f.Color,
			Building: string(f.BuildingID),
			Level:    f.Level,
			Metadata: map[string]any{"use_type": string(f.ColorClass)},
		})
	}
}

func assembleMarker(m massing.Marker, g *Graph) {
	meta := map[string]any{}
	if m.BuildingID != "" {
		meta["building_id"] = string(m.BuildingID)
	}
	if m.PinNumber != "" {
		meta["pin_number"] = m.PinNumber
	}
	if m.Zoning != "" {
		meta["zoning"] = m.Zoning
	}
	addEntity(g, Entity{
		ID:   MarkerID,
		Type: EntityMarker,
		Position: Vec3{
			X: m.X,
			Y: units.ToMeters(m.Z),
			Z: m.Y,
		},
		Dimensions: Vec3{X: markerSize, Y: markerSize, Z: markerSize},
		Rotation:   identityQuat(),
		Material:   MaterialMarker,
		Color:      [4]float64{255, 255, 255, 1},
		Metadata:   meta,
	})
}

// addEntity appends an entity and updates all group indices.
func addEntity(g *Graph, e Entity) {
	g.Entities = append(g.Entities, e)
	id := e.ID

	if e.Building != "" {
		g.Groups.Buildings[e.Building] = append(g.Groups.Buildings[e.Building], id)
	}
	g.Groups.Materials[e.Material] = append(g.Groups.Materials[e.Material], id)
	g.Groups.EntityTypes[e.Type] = append(g.Groups.EntityTypes[e.Type], id)
}

// computeBounds calculates the AABB of all entities from their
// unrotated extents.
func computeBounds(entities []Entity) BoundingBox {
	if len(entities) == 0 {
		return BoundingBox{}
	}
	minV := Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	maxV := Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}

	for _, e := range entities {
		// Half the diagonal covers any heading.
		r := math.Hypot(e.Dimensions.X, e.Dimensions.Z) / 2

		minV.X = math.Min(minV.X, e.Position.X-r)
		maxV.X = math.Max(maxV.X, e.Position.X+r)
		minV.Y = math.Min(minV.Y, e.Position.Y)
		maxV.Y = math.Max(maxV.Y, e.Position.Y+e.Dimensions.Y)
		minV.Z = math.Min(minV.Z, e.Position.Z-r)
		maxV.Z = math.Max(maxV.Z, e.Position.Z+r)
	}
	return BoundingBox{Min: minV, Max: maxV}
}

func identityQuat() [4]float64 {
	return [4]float64{0, 0, 0, 1}
}

func yawQuat(angle float64) [4]float64 {
	half := angle / 2
	return [4]float64{0, math.Sin(half), 0, math.Cos(half)}
}
