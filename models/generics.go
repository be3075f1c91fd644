package models

import (
	"context"

	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// GetResource fetches by id with a redis read-through for the types
// utils.redisHelper marks expirable. Non-expirable types fall straight
// through to the database.
func GetResource[T any](ctx context.Context, id int, associations ...string) (*T, error) {

	cached, err := utils.RetrieveRedis[T](id)
	if err == nil && cached != nil {
		return cached, nil
	}

	model, err := utils.FetchModel[T](ctx, id, associations...)
	if err != nil {
		return nil, err
	}
	utils.StoreRedis[T](model, id)
	return model, nil
}

func ToggleActiveModel[T any](ctx context.Context, id int, isActive bool) (*T, error) {

	model, err := utils.FetchModel[T](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(model).Update("is_active", isActive).Error
	if err != nil {
		return nil, err
	}
	utils.CleanRedisModel[T](id)

	return utils.FetchModel[T](ctx, id)
}
