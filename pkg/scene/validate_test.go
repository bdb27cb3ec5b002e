package scene

import (
	"testing"
)

func validGraph() *Graph {
	g := NewGraph()
	g.Entities = []Entity{
		{
			ID:         "1/floor-00",
			Type:       EntityFloor,
			Position:   Vec3{X: 10, Y: 0, Z: 20},
			Dimensions: Vec3{X: 25, Y: 4.5, Z: 30},
			Rotation:   [4]float64{0, 0, 0, 1},
			Material:   MaterialRetail,
			Building:   "1",
			Level:      0,
		},
		{
			ID:         "1/floor-01",
			Type:       EntityFloor,
			Position:   Vec3{X: 10, Y: 4.5, Z: 20},
			Dimensions: Vec3{X: 25, Y: 3.3, Z: 30},
			Rotation:   [4]float64{0, 0, 0, 1},
			Material:   MaterialOffice,
			Building:   "1",
			Level:      1,
		},
	}
	g.Groups.Buildings["1"] = []string{"1/floor-00", "1/floor-01"}
	g.Groups.Materials[MaterialRetail] = []string{"1/floor-00"}
	g.Groups.Materials[MaterialOffice] = []string{"1/floor-01"}
	g.Groups.EntityTypes[EntityFloor] = []string{"1/floor-00", "1/floor-01"}
	g.Metadata = Metadata{
		Buildings: 1,
		Bounds: BoundingBox{
			Min: Vec3{X: -100, Y: 0, Z: -100},
			Max: Vec3{X: 100, Y: 50, Z: 100},
		},
	}
	return g
}

func TestValidateGraph_Valid(t *testing.T) {
	r := ValidateGraph(validGraph())
	if !r.Valid {
		t.Errorf("expected valid, got %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
}

func TestValidateGraph_Nil(t *testing.T) {
	r := ValidateGraph(nil)
	if r.Valid {
		t.Error("expected invalid for nil graph")
	}
}

func TestValidateGraph_DuplicateID(t *testing.T) {
	g := validGraph()
	dup := g.Entities[1]
	dup.Level = 2
	dup.Position.Y = 7.8
	g.Entities = append(g.Entities, dup)
	g.Groups.Buildings["1"] = append(g.Groups.Buildings["1"], dup.ID)
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for duplicate ID")
	}
}

func TestValidateGraph_OrphanedGroupReference(t *testing.T) {
	g := validGraph()
	g.Groups.Buildings["1"] = append(g.Groups.Buildings["1"], "nonexistent")
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for orphaned group reference")
	}
}

func TestValidateGraph_MissingGroupMembership(t *testing.T) {
	g := validGraph()
	g.Groups.Materials[MaterialOffice] = []string{}
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for missing group membership")
	}
}

func TestValidateGraph_EmptyID(t *testing.T) {
	g := validGraph()
	g.Entities = append(g.Entities, Entity{
		ID:         "",
		Type:       EntityMarker,
		Dimensions: Vec3{X: 2, Y: 2, Z: 2},
		Rotation:   [4]float64{0, 0, 0, 1},
		Material:   MaterialMarker,
	})
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for empty ID")
	}
}

func TestValidateGraph_StackGap(t *testing.T) {
	g := validGraph()
	g.Entities[1].Position.Y = 6
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for a gap between floors")
	}
}

func TestValidateGraph_MissingLevel(t *testing.T) {
	g := validGraph()
	g.Entities[1].Level = 2
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for a skipped floor level")
	}
}

func TestValidateGraph_ZeroDimensionWarning(t *testing.T) {
	g := validGraph()
	g.Entities[0].Dimensions.X = 0
	r := ValidateGraph(g)
	if len(r.Warnings) == 0 {
		t.Error("expected warning for zero dimension")
	}
}

func TestValidateGraph_OutOfBoundsWarning(t *testing.T) {
	g := validGraph()
	g.Metadata.Bounds.Max.X = 0
	r := ValidateGraph(g)
	if len(r.Warnings) == 0 {
		t.Error("expected warning for entity outside bounds")
	}
}

func TestValidateGraph_AssembledGraph(t *testing.T) {
	g := assembleTestGraph(t)
	r := ValidateGraph(g)
	if !r.Valid {
		t.Errorf("assembled graph validation failed: %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
}
