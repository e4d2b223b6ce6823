package render

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/simplestation/ssu/kernel/model"
)

func ShapeTable(shapes []model.CompatibleShape) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"name", "id", "cores", "memory", "disk", "price"})
	for _, s := range shapes {
		t.AppendRow(table.Row{s.Name, int64(s.ID), s.Cores, s.MemoryGiB, s.DiskGiB, s.MonthlyPrice.String()})
	}
	return t.RenderMarkdown()
}
