package model

import (
	"fmt"
	"strconv"
)

// ShapeID identifies a server class in the provider catalog.
type ShapeID int64

func (id ShapeID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Arch is a CPU architecture such as "x86" or "arm".
type Arch string

const (
	ArchX86 Arch = "x86"
	ArchARM Arch = "arm"
)

// Price is a gross monthly price in EUR.
type Price float64

// PriceNotAvailable marks a shape that has no price for a location.
const PriceNotAvailable Price = -1

func (p Price) Available() bool {
	return p >= 0
}

func (p Price) String() string {
	if !p.Available() {
		return "N/A"
	}
	return fmt.Sprintf("€%.2f", float64(p))
}

// Shape is a catalog entry describing a server class.
type Shape struct {
	ID           ShapeID
	Name         string
	Cores        int
	MemoryGiB    float64
	DiskGiB      int
	Architecture Arch
	Prices       map[string]Price // location name -> monthly price
}

// CompatibleShape is a resize target priced for the node's location.
type CompatibleShape struct {
	*Shape
	MonthlyPrice Price
}

// RescaleRequest asks for a node to be moved to another shape. Without a
// target the request only queries the compatible shapes.
type RescaleRequest struct {
	Node        string
	TargetShape *ShapeID
}

// RescaleOutcome describes what a rescale request did.
type RescaleOutcome struct {
	NodeID            NodeID
	CurrentShape      string
	Changed           bool
	ShutdownPerformed bool
	Shapes            []CompatibleShape
}
