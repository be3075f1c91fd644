package models

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
	"gorm.io/gorm"
)

// All multi-row tree writes go through the helpers in this file. Every
// caller wraps them in a single transaction: either the whole tree
// mutation and the aggregate total land together, or nothing does.

func validateAggregateExists(ctx context.Context, referenceType string, referenceId int) error {
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Table(referenceType).Where("id = ?", referenceId).Count(&count).Error; err != nil {
		return err
	}
	if count <= 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

// createLocationNode persists one payload node with its device lines,
// then its sub-locations one level down. parent is nil for top level.
func createLocationNode(ctx context.Context, tx *gorm.DB, referenceType string, referenceId int, input *NewLocation, parent *Location) (*Location, error) {

	level := LocationLevelTop
	var parentId *int
	if parent != nil {
		level = parent.Level + 1
		parentId = &parent.ID
	}

	location := Location{
		ReferenceType:    referenceType,
		ReferenceID:      referenceId,
		ParentLocationId: parentId,
		Name:             input.Name,
		Description:      input.Description,
		Level:            level,
	}
	if err := tx.WithContext(ctx).Create(&location).Error; err != nil {
		return nil, err
	}

	for i := range input.Devices {
		assignment := input.Devices[i].toAssignment(location.ID)
		if err := tx.WithContext(ctx).Create(&assignment).Error; err != nil {
			return nil, err
		}
	}

	for i := range input.SubLocations {
		if _, err := createLocationNode(ctx, tx, referenceType, referenceId, &input.SubLocations[i], &location); err != nil {
			return nil, err
		}
	}

	return &location, nil
}

func createLocationTree(ctx context.Context, tx *gorm.DB, referenceType string, referenceId int, inputs []NewLocation) error {
	for i := range inputs {
		if _, err := createLocationNode(ctx, tx, referenceType, referenceId, &inputs[i], nil); err != nil {
			return err
		}
	}
	return nil
}

// replaceLocationTree drops the aggregate's existing tree and recreates
// it from the payload. Destructive replace: ids are regenerated on every
// update, which keeps the write path trivial to reason about.
func replaceLocationTree(ctx context.Context, tx *gorm.DB, referenceType string, referenceId int, inputs []NewLocation) error {

	var roots []Location
	err := tx.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ? AND parent_location_id IS NULL", referenceType, referenceId).
		Find(&roots).Error
	if err != nil {
		return err
	}
	for i := range roots {
		if err := deleteLocationSubtree(ctx, tx, &roots[i]); err != nil {
			return err
		}
	}

	return createLocationTree(ctx, tx, referenceType, referenceId, inputs)
}

// deleteLocationSubtree removes a location's device lines, then its
// descendants depth-first, then the location itself. Deletion order is
// explicit here rather than hidden in storage-level cascade hooks.
func deleteLocationSubtree(ctx context.Context, tx *gorm.DB, location *Location) error {

	if err := tx.WithContext(ctx).Where("location_id = ?", location.ID).Delete(&DeviceAssignment{}).Error; err != nil {
		return err
	}

	var children []Location
	if err := tx.WithContext(ctx).Where("parent_location_id = ?", location.ID).Find(&children).Error; err != nil {
		return err
	}
	for i := range children {
		if err := deleteLocationSubtree(ctx, tx, &children[i]); err != nil {
			return err
		}
	}

	return tx.WithContext(ctx).Delete(&Location{}, location.ID).Error
}

func deleteAggregateTree(ctx context.Context, tx *gorm.DB, referenceType string, referenceId int) error {

	var roots []Location
	err := tx.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ? AND parent_location_id IS NULL", referenceType, referenceId).
		Find(&roots).Error
	if err != nil {
		return err
	}
	for i := range roots {
		if err := deleteLocationSubtree(ctx, tx, &roots[i]); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeTotalCost sums total_price over every device assignment under
// the aggregate's locations and writes it to the aggregate row. Aggregate
// membership is flat per reference id, so one join covers both levels.
// Idempotent; always the last step of a mutating transaction.
func RecomputeTotalCost(ctx context.Context, tx *gorm.DB, referenceType string, referenceId int) (decimal.Decimal, error) {

	var count int64
	if err := tx.WithContext(ctx).Table(referenceType).Where("id = ?", referenceId).Count(&count).Error; err != nil {
		return decimal.Zero, err
	}
	if count <= 0 {
		return decimal.Zero, utils.ErrorRecordNotFound
	}

	var total decimal.Decimal
	err := tx.WithContext(ctx).Model(&DeviceAssignment{}).
		Joins("JOIN locations ON locations.id = device_assignments.location_id").
		Where("locations.reference_type = ? AND locations.reference_id = ?", referenceType, referenceId).
		Select("COALESCE(SUM(device_assignments.total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}

	err = tx.WithContext(ctx).Table(referenceType).Where("id = ?", referenceId).
		UpdateColumn("total_cost", total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// copyLocationTree deep-copies the source aggregate's tree under the
// target aggregate. Every id is remapped; names, levels, quantities and
// prices are copied verbatim, totals recomputed. The source is never
// written to.
func copyLocationTree(ctx context.Context, tx *gorm.DB, sourceType string, sourceId int, targetType string, targetId int) error {

	var roots []Location
	err := tx.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ? AND parent_location_id IS NULL", sourceType, sourceId).
		Preload("Devices").
		Order("id").
		Find(&roots).Error
	if err != nil {
		return err
	}

	for i := range roots {
		if err := copyLocationNode(ctx, tx, &roots[i], targetType, targetId, nil); err != nil {
			return err
		}
	}
	return nil
}

func copyLocationNode(ctx context.Context, tx *gorm.DB, source *Location, targetType string, targetId int, parent *Location) error {

	var parentId *int
	if parent != nil {
		parentId = &parent.ID
	}
	node := Location{
		ReferenceType:    targetType,
		ReferenceID:      targetId,
		ParentLocationId: parentId,
		Name:             source.Name,
		Description:      source.Description,
		Level:            source.Level,
	}
	if err := tx.WithContext(ctx).Create(&node).Error; err != nil {
		return err
	}

	for _, device := range source.Devices {
		assignment := DeviceAssignment{
			LocationId: node.ID,
			DeviceId:   device.DeviceId,
			Quantity:   device.Quantity,
			UnitPrice:  device.UnitPrice,
			TotalPrice: device.UnitPrice.Mul(decimal.NewFromInt(int64(device.Quantity))),
		}
		if err := tx.WithContext(ctx).Create(&assignment).Error; err != nil {
			return err
		}
	}

	var children []Location
	err := tx.WithContext(ctx).
		Where("parent_location_id = ?", source.ID).
		Preload("Devices").
		Order("id").
		Find(&children).Error
	if err != nil {
		return err
	}
	for i := range children {
		if err := copyLocationNode(ctx, tx, &children[i], targetType, targetId, &node); err != nil {
			return err
		}
	}
	return nil
}

// fetchLocationTree loads the nested, eager-loaded tree view.
func fetchLocationTree(ctx context.Context, referenceType string, referenceId int) ([]Location, error) {

	db := config.GetDB()
	var roots []Location
	err := db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ? AND parent_location_id IS NULL", referenceType, referenceId).
		Preload("Devices.Device").
		Preload("SubLocations.Devices.Device").
		Order("id").
		Find(&roots).Error
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// createTreeFromImport is the commit half of the preview-then-commit
// import flow. Locations are persisted first while a display-name ->
// persisted-id map is built; device lines then resolve their transient
// location key through that map. A device whose key matches no submitted
// location is skipped, not an error: the rest of the transaction still
// commits and the skip shows up in the returned counts.
func createTreeFromImport(ctx context.Context, tx *gorm.DB, referenceType string, referenceId int, locations []ImportLocation, devices []ImportDevice) (added int, skipped int, err error) {

	nameToId := make(map[string]int)

	var persist func(input *ImportLocation, parent *Location) error
	persist = func(input *ImportLocation, parent *Location) error {
		level := LocationLevelTop
		var parentId *int
		if parent != nil {
			level = parent.Level + 1
			parentId = &parent.ID
		}
		node := Location{
			ReferenceType:    referenceType,
			ReferenceID:      referenceId,
			ParentLocationId: parentId,
			Name:             input.Name,
			Description:      input.Description,
			Level:            level,
		}
		if err := tx.WithContext(ctx).Create(&node).Error; err != nil {
			return err
		}
		// duplicate sibling names: last one wins (see DESIGN.md)
		nameToId[node.Name] = node.ID
		for i := range input.SubLocations {
			if err := persist(&input.SubLocations[i], &node); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range locations {
		if err = persist(&locations[i], nil); err != nil {
			return 0, 0, err
		}
	}

	for _, device := range devices {
		key := device.AssignedLocation
		if key == "" {
			key = device.LocationName
		}
		locationId, ok := nameToId[key]
		if !ok {
			skipped++
			continue
		}
		assignment := DeviceAssignment{
			LocationId: locationId,
			DeviceId:   device.DeviceId,
			Quantity:   device.Quantity,
			UnitPrice:  device.UnitPrice,
			TotalPrice: device.UnitPrice.Mul(decimal.NewFromInt(int64(device.Quantity))),
		}
		if err = tx.WithContext(ctx).Create(&assignment).Error; err != nil {
			return 0, 0, err
		}
		added++
	}

	return added, skipped, nil
}
