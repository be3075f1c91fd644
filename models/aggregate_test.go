package models_test

import (
	"testing"

	"github.com/smartbuild-mm/smartbuild_backend/models"
)

func TestPaginateBuildSystemsSearch(t *testing.T) {
	ctx := setupTestDB(t)

	names := []string{"Starter Home", "Premium Villa", "Starter Office"}
	for _, name := range names {
		if _, err := models.CreateBuildSystem(ctx, &models.NewBuildSystem{Name: name}); err != nil {
			t.Fatalf("CreateBuildSystem(%s): %v", name, err)
		}
	}

	results, total, err := models.PaginateBuildSystems(ctx, "Starter", 1, 10)
	if err != nil {
		t.Fatalf("PaginateBuildSystems: %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Fatalf("search total = %d (%d rows), want 2", total, len(results))
	}

	page1, total, err := models.PaginateBuildSystems(ctx, "", 1, 2)
	if err != nil {
		t.Fatalf("PaginateBuildSystems(page 1): %v", err)
	}
	if total != 3 || len(page1) != 2 {
		t.Fatalf("page 1: total=%d rows=%d, want 3/2", total, len(page1))
	}
	page2, _, err := models.PaginateBuildSystems(ctx, "", 2, 2)
	if err != nil {
		t.Fatalf("PaginateBuildSystems(page 2): %v", err)
	}
	if len(page2) != 1 {
		t.Fatalf("page 2 rows = %d, want 1", len(page2))
	}
}

func TestToggleActiveBuildSystem(t *testing.T) {
	ctx := setupTestDB(t)

	buildSystem, err := models.CreateBuildSystem(ctx, &models.NewBuildSystem{Name: "Starter Home"})
	if err != nil {
		t.Fatalf("CreateBuildSystem: %v", err)
	}
	if buildSystem.IsActive == nil || !*buildSystem.IsActive {
		t.Fatal("new build system is not active")
	}

	toggled, err := models.ToggleActiveBuildSystem(ctx, buildSystem.ID, false)
	if err != nil {
		t.Fatalf("ToggleActiveBuildSystem: %v", err)
	}
	if toggled.IsActive == nil || *toggled.IsActive {
		t.Fatal("toggle to inactive did not stick")
	}
}

func TestLoginFlow(t *testing.T) {
	ctx := setupTestDB(t)

	if _, err := models.CreateUser(ctx, &models.NewUser{
		Username: "admin",
		Name:     "Administrator",
		Password: "secret-pass",
		Role:     models.UserRoleAdmin,
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	info, err := models.Login(ctx, "admin", "secret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if info.Token == "" || info.Role != models.UserRoleAdmin {
		t.Fatalf("unexpected login info: %+v", info)
	}

	if _, err := models.Login(ctx, "admin", "wrong"); err == nil {
		t.Fatal("wrong password was accepted")
	}
	if _, err := models.Login(ctx, "ghost", "secret-pass"); err == nil {
		t.Fatal("unknown user was accepted")
	}
}

func TestClientPhoneNormalization(t *testing.T) {
	ctx := setupTestDB(t)

	client, err := models.CreateClient(ctx, &models.NewClient{
		Name:  "U Mya",
		Phone: "09 2500 11223",
	})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if client.Phone != "+959250011223" {
		t.Fatalf("phone = %q, want E.164 form", client.Phone)
	}

	if _, err := models.CreateClient(ctx, &models.NewClient{
		Name:  "Bad Phone",
		Phone: "123",
	}); err == nil {
		t.Fatal("invalid phone was accepted")
	}
}
