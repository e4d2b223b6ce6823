package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/oliveagle/jsonpath"
	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/model"
)

type NodeSummary struct {
	ID   model.NodeID `json:"id"`
	Name string       `json:"name"`
}

type NodeDetail struct {
	ID     model.NodeID     `json:"id"`
	Name   string           `json:"name"`
	Status model.NodeStatus `json:"status"`
	Shape  string           `json:"shape"`
}

// NodeLines writes one "id: name" line per node.
func NodeLines(w io.Writer, nodes []*model.Node) error {
	for _, n := range nodes {
		if _, err := fmt.Fprintf(w, "%d: %s\n", n.ID, n.Name); err != nil {
			return err
		}
	}
	return nil
}

func NodeTable(nodes []*model.Node) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"name", "id", "status", "shape"})
	for _, n := range nodes {
		t.AppendRow(table.Row{n.Name, int64(n.ID), string(n.Status), n.ShapeName()})
	}
	return t.RenderMarkdown()
}

// NodeDocument is the JSON form of nodes: summaries by default, details
// when full is set.
func NodeDocument(nodes []*model.Node, full bool) interface{} {
	if full {
		details := make([]NodeDetail, 0, len(nodes))
		for _, n := range nodes {
			details = append(details, NodeDetail{ID: n.ID, Name: n.Name, Status: n.Status, Shape: n.ShapeName()})
		}
		return details
	}
	summaries := make([]NodeSummary, 0, len(nodes))
	for _, n := range nodes {
		summaries = append(summaries, NodeSummary{ID: n.ID, Name: n.Name})
	}
	return summaries
}

// JSON writes doc on a single line. When query is set, the JSONPath
// expression is evaluated against the document and only the match is
// written.
func JSON(w io.Writer, doc interface{}, query string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "unable to encode json")
	}

	if query != "" {
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return errors.Wrap(err, "unable to decode json")
		}
		match, err := jsonpath.JsonPathLookup(generic, query)
		if err != nil {
			return errors.Wrapf(err, "query '%s' failed", query)
		}
		if data, err = json.Marshal(match); err != nil {
			return errors.Wrap(err, "unable to encode query result")
		}
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
