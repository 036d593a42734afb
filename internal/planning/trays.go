package planning

import "math"

// Trays converts production units to baking trays, rounded up to the nearest
// half tray. It returns false when perTray is 0: the product is not baked
// (NC) and has no tray count.
func Trays(units, perTray int) (float64, bool) {
	if perTray <= 0 {
		return 0, false
	}
	if units <= 0 {
		return 0, true
	}
	halves := math.Ceil(float64(units)/float64(perTray)*2 - epsilon)
	return halves / 2, true
}

// ProductionUnits converts sale lots to production units. A product without
// lot size is sold by the unit.
func ProductionUnits(sales, unitsPerSaleLot int) int {
	if unitsPerSaleLot <= 0 {
		return sales
	}
	return sales * unitsPerSaleLot
}
