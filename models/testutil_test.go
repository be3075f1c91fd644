package models_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/models"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// setupTestDB points the global DB at a throwaway sqlite file and runs
// migrations. Each test gets its own schema under t.TempDir().
func setupTestDB(t *testing.T) context.Context {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	if err := config.ConnectTestDatabase(path); err != nil {
		t.Fatalf("ConnectTestDatabase: %v", err)
	}
	models.MigrateTable()

	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Test")
	return ctx
}

func seedDevice(t *testing.T, ctx context.Context, name string, sellingPrice string) *models.Device {
	t.Helper()

	device, err := models.CreateDevice(ctx, &models.NewDevice{
		Name:         name,
		Category:     "Testing",
		SellingPrice: decimal.RequireFromString(sellingPrice),
	})
	if err != nil {
		t.Fatalf("CreateDevice(%s): %v", name, err)
	}
	return device
}

func seedProject(t *testing.T, ctx context.Context, name string) *models.Project {
	t.Helper()

	client, err := models.CreateClient(ctx, &models.NewClient{Name: name + " Owner"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	project, err := models.CreateProject(ctx, &models.NewProject{
		ClientId: client.ID,
		Name:     name,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return project
}

func mustEqualDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", label, got.String(), want)
	}
}
