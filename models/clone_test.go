package models_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smartbuild-mm/smartbuild_backend/models"
)

func newStarterTemplate(t *testing.T, ctx context.Context) *models.BuildSystem {
	t.Helper()
	tv := seedDevice(t, ctx, "Smart TV", "100")
	speaker := seedDevice(t, ctx, "Ceiling Speaker", "50")

	buildSystem, err := models.CreateBuildSystem(ctx, &models.NewBuildSystem{
		Name:        "Starter Home",
		Description: "two rooms",
		Locations: []models.NewLocation{
			{
				Name: "Living Room",
				Devices: []models.NewDeviceAssignment{
					{DeviceId: tv.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("100")},
				},
				SubLocations: []models.NewLocation{
					{
						Name: "TV Nook",
						Devices: []models.NewDeviceAssignment{
							{DeviceId: speaker.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("50")},
						},
					},
				},
			},
			{Name: "Garage"},
		},
	})
	if err != nil {
		t.Fatalf("CreateBuildSystem: %v", err)
	}
	return buildSystem
}

// Clone must produce an isomorphic tree under fresh ids, with the same
// total, while leaving the source untouched.
func TestCloneBuildSystem(t *testing.T) {
	ctx := setupTestDB(t)
	source := newStarterTemplate(t, ctx)

	clone, err := models.CloneBuildSystem(ctx, source.ID, "")
	if err != nil {
		t.Fatalf("CloneBuildSystem: %v", err)
	}

	if clone.ID == source.ID {
		t.Fatal("clone reused the source aggregate id")
	}
	if clone.Name != "Starter Home (Copy)" {
		t.Fatalf("clone name = %q, want default copy suffix", clone.Name)
	}
	mustEqualDecimal(t, "clone total_cost", clone.TotalCost, "250")

	sourceIds := collectLocationIds(source.Locations)
	cloneIds := collectLocationIds(clone.Locations)
	if len(cloneIds) != len(sourceIds) {
		t.Fatalf("clone has %d locations, source has %d", len(cloneIds), len(sourceIds))
	}
	for id := range cloneIds {
		if sourceIds[id] {
			t.Fatalf("clone shares location id %d with the source", id)
		}
	}

	if len(clone.Locations) != 2 {
		t.Fatalf("clone top-level locations = %d, want 2", len(clone.Locations))
	}
	livingRoom := clone.Locations[0]
	if livingRoom.Name != "Living Room" || len(livingRoom.SubLocations) != 1 || livingRoom.SubLocations[0].Name != "TV Nook" {
		t.Fatalf("clone tree shape differs from source: %+v", clone.Locations)
	}

	// source is untouched
	refreshed, err := models.GetBuildSystem(ctx, source.ID)
	if err != nil {
		t.Fatalf("GetBuildSystem(source): %v", err)
	}
	mustEqualDecimal(t, "source total_cost after clone", refreshed.TotalCost, "250")
	if len(refreshed.Locations) != 2 {
		t.Fatalf("source top-level locations after clone = %d, want 2", len(refreshed.Locations))
	}
}

// A plan clone lands under the target project; a project may only ever
// hold one plan.
func TestCloneProjectPlan(t *testing.T) {
	ctx := setupTestDB(t)
	tv := seedDevice(t, ctx, "Smart TV", "100")
	sourceProject := seedProject(t, ctx, "House A")
	targetProject := seedProject(t, ctx, "House B")

	source, err := models.CreateProjectPlan(ctx, sourceProject.ID, &models.NewProjectPlan{
		Name: "House A Plan",
		Locations: []models.NewLocation{
			{
				Name: "Bedroom",
				Devices: []models.NewDeviceAssignment{
					{DeviceId: tv.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("100")},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateProjectPlan: %v", err)
	}

	clone, err := models.CloneProjectPlan(ctx, source.ID, targetProject.ID, "House B Plan")
	if err != nil {
		t.Fatalf("CloneProjectPlan: %v", err)
	}
	if clone.ProjectId != targetProject.ID {
		t.Fatalf("clone project id = %d, want %d", clone.ProjectId, targetProject.ID)
	}
	mustEqualDecimal(t, "clone total_cost", clone.TotalCost, "100")

	// second plan for the same project must be rejected
	if _, err := models.CloneProjectPlan(ctx, source.ID, targetProject.ID, "Again"); err == nil {
		t.Fatal("second plan for the target project was accepted")
	}
	if _, err := models.CreateProjectPlan(ctx, sourceProject.ID, &models.NewProjectPlan{Name: "Dup"}); err == nil {
		t.Fatal("second plan for the source project was accepted")
	}
}

func collectLocationIds(locations []models.Location) map[int]bool {
	ids := make(map[int]bool)
	var walk func(nodes []models.Location)
	walk = func(nodes []models.Location) {
		for _, node := range nodes {
			ids[node.ID] = true
			walk(node.SubLocations)
		}
	}
	walk(locations)
	return ids
}
