package engine

import "github.com/simplestation/ssu/kernel/model"

// CompatibleShapes keeps the shapes a node with the given disk size and
// architecture can be resized to, priced for location. Catalog order is
// preserved.
func CompatibleShapes(catalog []*model.Shape, minDisk int, arch model.Arch, location string) []model.CompatibleShape {
	var result []model.CompatibleShape
	for _, shape := range catalog {
		if shape.DiskGiB < minDisk || shape.Architecture != arch {
			continue
		}
		price, ok := shape.Prices[location]
		if !ok {
			price = model.PriceNotAvailable
		}
		result = append(result, model.CompatibleShape{Shape: shape, MonthlyPrice: price})
	}
	return result
}
