package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smartbuild-mm/smartbuild_backend/models"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// Create a template with a nested tree and check the cost rollup:
// Living Room holds 2 x 100 directly plus a TV Nook sub-location with
// 1 x 50, so the aggregate total must be 250.
func TestCreateBuildSystemRollsUpTotalCost(t *testing.T) {
	ctx := setupTestDB(t)
	tv := seedDevice(t, ctx, "Smart TV", "100")
	speaker := seedDevice(t, ctx, "Ceiling Speaker", "50")

	buildSystem, err := models.CreateBuildSystem(ctx, &models.NewBuildSystem{
		Name: "Starter Home",
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
		},
	})
	if err != nil {
		t.Fatalf("CreateBuildSystem: %v", err)
	}

	mustEqualDecimal(t, "total_cost", buildSystem.TotalCost, "250")

	if len(buildSystem.Locations) != 1 {
		t.Fatalf("top-level locations = %d, want 1", len(buildSystem.Locations))
	}
	livingRoom := buildSystem.Locations[0]
	if livingRoom.Level != 0 {
		t.Fatalf("top-level location level = %d, want 0", livingRoom.Level)
	}
	if len(livingRoom.SubLocations) != 1 {
		t.Fatalf("sub-locations = %d, want 1", len(livingRoom.SubLocations))
	}
	if livingRoom.SubLocations[0].Level != 1 {
		t.Fatalf("sub-location level = %d, want 1", livingRoom.SubLocations[0].Level)
	}
	if len(livingRoom.Devices) != 1 {
		t.Fatalf("living room devices = %d, want 1", len(livingRoom.Devices))
	}
	mustEqualDecimal(t, "line total", livingRoom.Devices[0].TotalPrice, "200")
}

// Deleting a sub-location must cascade to its device lines and refresh
// the aggregate total in the same transaction.
func TestDeleteLocationCascadesAndRecomputes(t *testing.T) {
	ctx := setupTestDB(t)
	tv := seedDevice(t, ctx, "Smart TV", "100")
	speaker := seedDevice(t, ctx, "Ceiling Speaker", "50")

	buildSystem, err := models.CreateBuildSystem(ctx, &models.NewBuildSystem{
		Name: "Starter Home",
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
		},
	})
	if err != nil {
		t.Fatalf("CreateBuildSystem: %v", err)
	}

	nook := buildSystem.Locations[0].SubLocations[0]
	if _, err := models.DeleteLocation(ctx, nook.ID); err != nil {
		t.Fatalf("DeleteLocation: %v", err)
	}

	refreshed, err := models.GetBuildSystem(ctx, buildSystem.ID)
	if err != nil {
		t.Fatalf("GetBuildSystem: %v", err)
	}
	mustEqualDecimal(t, "total_cost after delete", refreshed.TotalCost, "200")
	if len(refreshed.Locations[0].SubLocations) != 0 {
		t.Fatalf("sub-locations after delete = %d, want 0", len(refreshed.Locations[0].SubLocations))
	}

	if _, err := models.GetLocation(ctx, nook.ID); err == nil {
		t.Fatal("deleted location still readable")
	}
}

// Update replaces the whole tree: old location ids must be gone, the new
// payload must be the only tree, and the total must match the payload.
func TestUpdateBuildSystemReplacesTree(t *testing.T) {
	ctx := setupTestDB(t)
	tv := seedDevice(t, ctx, "Smart TV", "100")
	lock := seedDevice(t, ctx, "Door Lock", "80")

	buildSystem, err := models.CreateBuildSystem(ctx, &models.NewBuildSystem{
		Name: "Starter Home",
		Locations: []models.NewLocation{
			{
				Name: "Living Room",
				Devices: []models.NewDeviceAssignment{
					{DeviceId: tv.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("100")},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateBuildSystem: %v", err)
	}
	oldLocationId := buildSystem.Locations[0].ID

	updated, err := models.UpdateBuildSystem(ctx, buildSystem.ID, &models.NewBuildSystem{
		Name: "Starter Home v2",
		Locations: []models.NewLocation{
			{
				Name: "Entrance",
				Devices: []models.NewDeviceAssignment{
					{DeviceId: lock.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("80")},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("UpdateBuildSystem: %v", err)
	}

	mustEqualDecimal(t, "total_cost after replace", updated.TotalCost, "80")
	if len(updated.Locations) != 1 || updated.Locations[0].Name != "Entrance" {
		t.Fatalf("replaced tree = %+v, want single Entrance location", updated.Locations)
	}
	if updated.Locations[0].ID == oldLocationId {
		t.Fatal("replace reused the old location id")
	}
	if _, err := models.GetLocation(ctx, oldLocationId); err == nil {
		t.Fatal("old location survived the replace")
	}
}

// Replacing with an identical payload is idempotent on content: same
// total, same (name, quantity, price) tuples, new ids.
func TestReplaceTreeIdempotentOnContent(t *testing.T) {
	ctx := setupTestDB(t)
	tv := seedDevice(t, ctx, "Smart TV", "100")

	payload := func() *models.NewBuildSystem {
		return &models.NewBuildSystem{
			Name: "Starter Home",
			Locations: []models.NewLocation{
				{
					Name: "Living Room",
					Devices: []models.NewDeviceAssignment{
						{DeviceId: tv.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("100")},
					},
					SubLocations: []models.NewLocation{{Name: "TV Nook"}},
				},
			},
		}
	}

	buildSystem, err := models.CreateBuildSystem(ctx, payload())
	if err != nil {
		t.Fatalf("CreateBuildSystem: %v", err)
	}

	var previous *models.BuildSystem = buildSystem
	for i := 0; i < 2; i++ {
		updated, err := models.UpdateBuildSystem(ctx, buildSystem.ID, payload())
		if err != nil {
			t.Fatalf("UpdateBuildSystem round %d: %v", i+1, err)
		}
		mustEqualDecimal(t, "total_cost after replace", updated.TotalCost, "200")
		if len(updated.Locations) != 1 || updated.Locations[0].Name != "Living Room" {
			t.Fatalf("round %d: unexpected tree %+v", i+1, updated.Locations)
		}
		if len(updated.Locations[0].SubLocations) != 1 || updated.Locations[0].SubLocations[0].Name != "TV Nook" {
			t.Fatalf("round %d: sub-location lost", i+1)
		}
		if updated.Locations[0].ID == previous.Locations[0].ID {
			t.Fatalf("round %d: replace reused location ids", i+1)
		}
		line := updated.Locations[0].Devices[0]
		if line.Quantity != 2 {
			t.Fatalf("round %d: quantity = %d, want 2", i+1, line.Quantity)
		}
		mustEqualDecimal(t, "unit price after replace", line.UnitPrice, "100")
		previous = updated
	}
}

// Incremental adds must leave sibling locations untouched.
func TestIncrementalAddLeavesSiblingsAlone(t *testing.T) {
	ctx := setupTestDB(t)
	tv := seedDevice(t, ctx, "Smart TV", "100")
	sensor := seedDevice(t, ctx, "Motion Sensor", "25")

	buildSystem, err := models.CreateBuildSystem(ctx, &models.NewBuildSystem{
		Name: "Starter Home",
		Locations: []models.NewLocation{
			{
				Name: "Living Room",
				Devices: []models.NewDeviceAssignment{
					{DeviceId: tv.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("100")},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateBuildSystem: %v", err)
	}
	livingRoomId := buildSystem.Locations[0].ID

	if _, err := models.AddLocation(ctx, models.ReferenceTypeBuildSystem, buildSystem.ID, &models.NewLocation{
		Name: "Garage",
		Devices: []models.NewDeviceAssignment{
			{DeviceId: sensor.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("25")},
		},
	}); err != nil {
		t.Fatalf("AddLocation: %v", err)
	}

	if _, err := models.AddSubLocation(ctx, livingRoomId, &models.NewLocation{
		Name: "Reading Corner",
		Devices: []models.NewDeviceAssignment{
			{DeviceId: sensor.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("25")},
		},
	}); err != nil {
		t.Fatalf("AddSubLocation: %v", err)
	}

	refreshed, err := models.GetBuildSystem(ctx, buildSystem.ID)
	if err != nil {
		t.Fatalf("GetBuildSystem: %v", err)
	}
	// 100 + 2*25 + 1*25
	mustEqualDecimal(t, "total_cost after adds", refreshed.TotalCost, "175")
	if len(refreshed.Locations) != 2 {
		t.Fatalf("top-level locations = %d, want 2", len(refreshed.Locations))
	}

	livingRoom, err := models.GetLocation(ctx, livingRoomId)
	if err != nil {
		t.Fatalf("GetLocation: %v", err)
	}
	if len(livingRoom.Devices) != 1 {
		t.Fatalf("living room devices after adds = %d, want 1", len(livingRoom.Devices))
	}
	if len(livingRoom.SubLocations) != 1 || livingRoom.SubLocations[0].Name != "Reading Corner" {
		t.Fatalf("living room sub-locations = %+v, want Reading Corner", livingRoom.SubLocations)
	}
}

// Trees are two levels deep: a sub-location can never take children of
// its own, whether through AddSubLocation or a nested payload.
func TestSubLocationCannotNestFurther(t *testing.T) {
	ctx := setupTestDB(t)
	tv := seedDevice(t, ctx, "Smart TV", "100")

	buildSystem, err := models.CreateBuildSystem(ctx, &models.NewBuildSystem{
		Name: "Starter Home",
		Locations: []models.NewLocation{
			{
				Name: "Living Room",
				Devices: []models.NewDeviceAssignment{
					{DeviceId: tv.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("100")},
				},
				SubLocations: []models.NewLocation{{Name: "TV Nook"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateBuildSystem: %v", err)
	}
	nook := buildSystem.Locations[0].SubLocations[0]

	if _, err := models.AddSubLocation(ctx, nook.ID, &models.NewLocation{
		Name: "Shelf",
		Devices: []models.NewDeviceAssignment{
			{DeviceId: tv.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("100")},
		},
	}); err == nil {
		t.Fatal("AddSubLocation under a sub-location was accepted")
	}

	livingRoomId := buildSystem.Locations[0].ID
	if _, err := models.AddSubLocation(ctx, livingRoomId, &models.NewLocation{
		Name:         "Corner",
		SubLocations: []models.NewLocation{{Name: "Too Deep"}},
	}); err == nil {
		t.Fatal("sub-location payload with nested children was accepted")
	}

	if _, err := models.UpdateBuildSystem(ctx, buildSystem.ID, &models.NewBuildSystem{
		Name: "Starter Home",
		Locations: []models.NewLocation{
			{
				Name: "Living Room",
				SubLocations: []models.NewLocation{
					{Name: "TV Nook", SubLocations: []models.NewLocation{{Name: "Too Deep"}}},
				},
			},
		},
	}); err == nil {
		t.Fatal("three-level replace payload was accepted")
	}

	// the rejected writes must not have touched the aggregate
	refreshed, err := models.GetBuildSystem(ctx, buildSystem.ID)
	if err != nil {
		t.Fatalf("GetBuildSystem: %v", err)
	}
	mustEqualDecimal(t, "total_cost after rejected nesting", refreshed.TotalCost, "100")
	if len(refreshed.Locations[0].SubLocations) != 1 {
		t.Fatalf("sub-locations = %d, want 1", len(refreshed.Locations[0].SubLocations))
	}
}

// Device-line edits must refresh both the derived line total and the
// aggregate total.
func TestDeviceAssignmentUpdateAndDelete(t *testing.T) {
	ctx := setupTestDB(t)
	tv := seedDevice(t, ctx, "Smart TV", "100")

	buildSystem, err := models.CreateBuildSystem(ctx, &models.NewBuildSystem{
		Name: "Starter Home",
		Locations: []models.NewLocation{
			{
				Name: "Living Room",
				Devices: []models.NewDeviceAssignment{
					{DeviceId: tv.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("100")},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateBuildSystem: %v", err)
	}
	line := buildSystem.Locations[0].Devices[0]

	updated, err := models.UpdateDeviceAssignment(ctx, line.ID, &models.NewDeviceAssignment{
		DeviceId:  tv.ID,
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("90"),
	})
	if err != nil {
		t.Fatalf("UpdateDeviceAssignment: %v", err)
	}
	mustEqualDecimal(t, "line total after update", updated.TotalPrice, "270")

	refreshed, err := models.GetBuildSystem(ctx, buildSystem.ID)
	if err != nil {
		t.Fatalf("GetBuildSystem: %v", err)
	}
	mustEqualDecimal(t, "total_cost after update", refreshed.TotalCost, "270")

	if _, err := models.DeleteDeviceAssignment(ctx, line.ID); err != nil {
		t.Fatalf("DeleteDeviceAssignment: %v", err)
	}
	refreshed, err = models.GetBuildSystem(ctx, buildSystem.ID)
	if err != nil {
		t.Fatalf("GetBuildSystem: %v", err)
	}
	mustEqualDecimal(t, "total_cost after line delete", refreshed.TotalCost, "0")
}

// Invalid payloads must be rejected before anything is written.
func TestTreeValidationRejectsBadPayloads(t *testing.T) {
	ctx := setupTestDB(t)
	tv := seedDevice(t, ctx, "Smart TV", "100")

	cases := []struct {
		name  string
		input models.NewBuildSystem
	}{
		{
			name: "zero quantity",
			input: models.NewBuildSystem{
				Name: "Bad Quantity",
				Locations: []models.NewLocation{
					{Name: "Living Room", Devices: []models.NewDeviceAssignment{
						{DeviceId: tv.ID, Quantity: 0, UnitPrice: decimal.RequireFromString("100")},
					}},
				},
			},
		},
		{
			name: "negative price",
			input: models.NewBuildSystem{
				Name: "Bad Price",
				Locations: []models.NewLocation{
					{Name: "Living Room", Devices: []models.NewDeviceAssignment{
						{DeviceId: tv.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("-1")},
					}},
				},
			},
		},
		{
			name: "unknown device",
			input: models.NewBuildSystem{
				Name: "Bad Device",
				Locations: []models.NewLocation{
					{Name: "Living Room", Devices: []models.NewDeviceAssignment{
						{DeviceId: 9999, Quantity: 1, UnitPrice: decimal.RequireFromString("100")},
					}},
				},
			},
		},
		{
			name: "missing location name",
			input: models.NewBuildSystem{
				Name:      "Bad Location",
				Locations: []models.NewLocation{{Name: ""}},
			},
		},
	}

	for _, tc := range cases {
		if _, err := models.CreateBuildSystem(ctx, &tc.input); err == nil {
			t.Fatalf("%s: expected error, got none", tc.name)
		}
	}

	// none of the rejected payloads may have left rows behind
	systems, total, err := models.PaginateBuildSystems(ctx, "", 1, 10)
	if err != nil {
		t.Fatalf("PaginateBuildSystems: %v", err)
	}
	if total != 0 || len(systems) != 0 {
		t.Fatalf("rejected creates left %d aggregates behind", total)
	}
}

// Missing aggregate must surface as the shared not-found sentinel.
func TestOperationsOnMissingAggregate(t *testing.T) {
	ctx := setupTestDB(t)

	if _, err := models.GetBuildSystem(ctx, 42); err != utils.ErrorRecordNotFound {
		t.Fatalf("GetBuildSystem(42) err = %v, want ErrorRecordNotFound", err)
	}
	if _, err := models.AddLocation(ctx, models.ReferenceTypeBuildSystem, 42, &models.NewLocation{Name: "Ghost"}); err != utils.ErrorRecordNotFound {
		t.Fatalf("AddLocation on missing aggregate err = %v, want ErrorRecordNotFound", err)
	}
}
