package scene

import (
	"fmt"
	"math"
	"slices"

	"github.com/CORaleigh/NextCenturyCities/pkg/validation"
)

const stackTolerance = 1e-6

// ValidateGraph performs structural validation on a scene graph output.
// It checks entity integrity, group index consistency, stack continuity and
// bounds enclosure.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelScene,
			Message: "scene graph is nil",
		})
		return r
	}

	validateEntityIDs(g, r)
	validateGroupIndices(g, r)
	validateGroupMembership(g, r)
	validateStacks(g, r)
	validateBoundsEnclosure(g, r)
	validateEntityDimensions(g, r)

	return r
}

func validateEntityIDs(g *Graph, r *validation.Report) {
	seen := make(map[string]int, len(g.Entities))

	for i, e := range g.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity at index %d has empty ID", i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("duplicate entity ID %q at indices %d and %d", e.ID, prev, i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

func validateGroupIndices(g *Graph, r *validation.Report) {
	entityIDs := make(map[string]bool, len(g.Entities))
	for _, e := range g.Entities {
		entityIDs[e.ID] = true
	}

	checkGroup := func(groupType, groupName string, ids []string) {
		for _, id := range ids {
			if !entityIDs[id] {
				r.AddError(validation.Result{
					Level:       validation.LevelScene,
					Message:     fmt.Sprintf("group %s.%s references non-existent entity %q", groupType, groupName, id),
					Path:        fmt.Sprintf("groups.%s.%s", groupType, groupName),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
			}
		}
	}

	for name, ids := range g.Groups.Buildings {
		checkGroup("buildings", name, ids)
	}
	for name, ids := range g.Groups.Materials {
		checkGroup("materials", string(name), ids)
	}
	for name, ids := range g.Groups.EntityTypes {
		checkGroup("entity_types", string(name), ids)
	}
}

func members[K ~string](groups map[K][]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(groups))
	for k, ids := range groups {
		m := make(map[string]bool, len(ids))
		for _, id := range ids {
			m[id] = true
		}
		out[string(k)] = m
	}
	return out
}

func validateGroupMembership(g *Graph, r *validation.Report) {
	groups := map[string]map[string]map[string]bool{
		"materials":    members(g.Groups.Materials),
		"entity_types": members(g.Groups.EntityTypes),
		"buildings":    members(g.Groups.Buildings),
	}

	check := func(e Entity, groupType, key string) {
		if key == "" {
			return
		}
		m, ok := groups[groupType][key]
		if !ok {
			r.AddError(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity %q has %s %q but no such group exists", e.ID, groupType, key),
				Path:        "groups." + groupType,
				ActualValue: key,
			})
			return
		}
		if !m[e.ID] {
			r.AddError(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity %q is missing from group %s.%s", e.ID, groupType, key),
				Path:        fmt.Sprintf("groups.%s.%s", groupType, key),
				ActualValue: e.ID,
			})
		}
	}

	for _, e := range g.Entities {
		if e.ID == "" {
			continue
		}
		check(e, "materials", string(e.Material))
		check(e, "entity_types", string(e.Type))
		check(e, "buildings", e.Building)
	}
}

// validateStacks checks that the floors of each building sit directly on
// top of each other in level order, starting at ground level.
func validateStacks(g *Graph, r *validation.Report) {
	floors := make(map[string][]Entity)
	for _, e := range g.Entities {
		if e.Type == EntityFloor && e.Building != "" {
			floors[e.Building] = append(floors[e.Building], e)
		}
	}

	for id, fs := range floors {
		slices.SortFunc(fs, func(a, b Entity) int { return a.Level - b.Level })
		top := fs[0].Position.Y
		for i, f := range fs {
			if f.Level != i {
				r.AddError(validation.Result{
					Level:       validation.LevelScene,
					Message:     fmt.Sprintf("building %q is missing floor level %d", id, i),
					Path:        fmt.Sprintf("groups.buildings.%s", id),
					ActualValue: f.Level,
					Expected:    fmt.Sprint(i),
				})
				break
			}
			if math.Abs(f.Position.Y-top) > stackTolerance {
				r.AddError(validation.Result{
					Level:       validation.LevelScene,
					Message:     fmt.Sprintf("floor %q starts at %.3f, expected %.3f", f.ID, f.Position.Y, top),
					Path:        fmt.Sprintf("entities.%s.position.y", f.ID),
					ActualValue: f.Position.Y,
				})
				break
			}
			top += f.Dimensions.Y
		}
		if math.Abs(fs[0].Position.Y) > stackTolerance {
			r.AddWarning(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("building %q does not start at ground level", id),
				Path:        fmt.Sprintf("entities.%s.position.y", fs[0].ID),
				ActualValue: fs[0].Position.Y,
			})
		}
	}
}

func validateBoundsEnclosure(g *Graph, r *validation.Report) {
	bounds := g.Metadata.Bounds
	tolerance := 1.0

	for _, e := range g.Entities {
		if e.Position.X < bounds.Min.X-tolerance || e.Position.X > bounds.Max.X+tolerance ||
			e.Position.Z < bounds.Min.Z-tolerance || e.Position.Z > bounds.Max.Z+tolerance {
			r.AddWarning(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity %q at (%.1f, %.1f) outside scene bounds", e.ID, e.Position.X, e.Position.Z),
				Path:        "metadata.bounds",
				ActualValue: fmt.Sprintf("%.1f, %.1f", e.Position.X, e.Position.Z),
			})
			break
		}
		if e.Position.Y+e.Dimensions.Y > bounds.Max.Y+tolerance {
			r.AddWarning(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity %q top %.1f above scene bounds %.1f", e.ID, e.Position.Y+e.Dimensions.Y, bounds.Max.Y),
				Path:        "metadata.bounds",
				ActualValue: e.Position.Y + e.Dimensions.Y,
			})
			break
		}
	}
}

func validateEntityDimensions(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		if e.Dimensions.X <= 0 || e.Dimensions.Y <= 0 || e.Dimensions.Z <= 0 {
			r.AddWarning(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity %q has zero or negative dimension (%.2f, %.2f, %.2f)", e.ID, e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				Path:        fmt.Sprintf("entities.%s.dimensions", e.ID),
				ActualValue: fmt.Sprintf("%.2f x %.2f x %.2f", e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				Expected:    "all dimensions > 0",
			})
		}
	}
}
