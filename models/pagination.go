package models

import (
	"context"

	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

const (
	DefaultPage = 1
	MaxLimit    = 100
)

// paginateByName is the shared offset-paginated listing with an
// optional substring search over the name column. Trees are not loaded
// here; list rows only carry the aggregate columns.
func paginateByName[T any](ctx context.Context, name string, page int, limit int) ([]*T, int64, error) {

	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = config.SearchLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(new(T))
	if search := utils.NilOrElse(name == "", name); search != nil {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*search+"%")
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*T
	err := dbCtx.
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
