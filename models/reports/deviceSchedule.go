package reports

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/models"
	"github.com/xuri/excelize/v2"
)

// LocationCostSummary is one row of the per-location cost breakdown:
// how much of an aggregate's total sits under each location.
type LocationCostSummary struct {
	LocationId   int             `json:"location_id"`
	LocationName string          `json:"location_name"`
	Level        int             `json:"level"`
	DeviceCount  int             `json:"device_count"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

func GetLocationCostSummary(ctx context.Context, referenceType string, referenceId int) ([]*LocationCostSummary, error) {

	sql := `
SELECT
    locations.id AS location_id,
    locations.name AS location_name,
    locations.level,
    COUNT(device_assignments.id) AS device_count,
    COALESCE(SUM(device_assignments.total_price), 0) AS total_cost
FROM
    locations
    LEFT JOIN device_assignments ON device_assignments.location_id = locations.id
WHERE
    locations.reference_type = ?
    AND locations.reference_id = ?
GROUP BY
    locations.id, locations.name, locations.level
ORDER BY
    locations.level, locations.id
`

	var records []*LocationCostSummary
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, referenceType, referenceId).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// BuildDeviceScheduleWorkbook renders the flattened export as a device
// schedule spreadsheet: one line per device assignment, grouped under
// its location name, with a grand total row at the bottom. A second
// sheet carries the per-location cost breakdown when one is supplied.
func BuildDeviceScheduleWorkbook(title string, preparedBy string, export *models.TreeExport, summary []*LocationCostSummary) (*excelize.File, error) {

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}

	// Add headers
	f.SetCellValue(sheetName, "A1", "Location")
	f.SetCellValue(sheetName, "B1", "Device")
	f.SetCellValue(sheetName, "C1", "Category")
	f.SetCellValue(sheetName, "D1", "Brand")
	f.SetCellValue(sheetName, "E1", "Model")
	f.SetCellValue(sheetName, "F1", "Quantity")
	f.SetCellValue(sheetName, "G1", "UnitPrice")
	f.SetCellValue(sheetName, "H1", "TotalPrice")

	// Add data
	grandTotal := decimal.Zero
	row := 2
	for _, d := range export.Devices {
		lineTotal := d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
		grandTotal = grandTotal.Add(lineTotal)

		f.SetCellValue(sheetName, "A"+fmt.Sprint(row), d.LocationName)
		f.SetCellValue(sheetName, "B"+fmt.Sprint(row), d.Name)
		f.SetCellValue(sheetName, "C"+fmt.Sprint(row), d.Category)
		f.SetCellValue(sheetName, "D"+fmt.Sprint(row), d.Brand)
		f.SetCellValue(sheetName, "E"+fmt.Sprint(row), d.Model)
		f.SetCellValue(sheetName, "F"+fmt.Sprint(row), d.Quantity)
		f.SetCellValue(sheetName, "G"+fmt.Sprint(row), d.UnitPrice.InexactFloat64())
		f.SetCellValue(sheetName, "H"+fmt.Sprint(row), lineTotal.InexactFloat64())
		row++
	}

	f.SetCellValue(sheetName, "A"+fmt.Sprint(row), title)
	f.SetCellValue(sheetName, "G"+fmt.Sprint(row), "Total")
	f.SetCellValue(sheetName, "H"+fmt.Sprint(row), grandTotal.InexactFloat64())
	if preparedBy != "" {
		row++
		f.SetCellValue(sheetName, "A"+fmt.Sprint(row), "Prepared by")
		f.SetCellValue(sheetName, "B"+fmt.Sprint(row), preparedBy)
	}

	if len(summary) > 0 {
		summarySheet := "Summary"
		if _, err := f.NewSheet(summarySheet); err != nil {
			return nil, err
		}
		f.SetCellValue(summarySheet, "A1", "Location")
		f.SetCellValue(summarySheet, "B1", "Level")
		f.SetCellValue(summarySheet, "C1", "Devices")
		f.SetCellValue(summarySheet, "D1", "TotalCost")
		for i, s := range summary {
			r := fmt.Sprint(i + 2)
			f.SetCellValue(summarySheet, "A"+r, s.LocationName)
			f.SetCellValue(summarySheet, "B"+r, s.Level)
			f.SetCellValue(summarySheet, "C"+r, s.DeviceCount)
			f.SetCellValue(summarySheet, "D"+r, s.TotalCost.InexactFloat64())
		}
	}

	return f, nil
}
