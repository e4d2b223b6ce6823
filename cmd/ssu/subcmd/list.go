/*
	(c) Copyright SimpleStation Contributors

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

	https://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package subcmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/render"
	"github.com/spf13/cobra"
)

func NewListCommand(g *Globals) *cobra.Command {
	listCmd := &ListCommand{globals: g}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all nodes",
		Args:    cobra.NoArgs,
		RunE:    listCmd.list,
	}

	cmd.Flags().BoolVarP(&listCmd.Full, "full", "l", false, "list full details regarding the nodes")
	cmd.Flags().BoolVarP(&listCmd.JSON, "json", "j", false, "output in JSON format")
	cmd.Flags().StringVarP(&listCmd.Sort, "sort", "s", render.SortCreated.String(), "sort the nodes by "+render.SortUsage())
	cmd.Flags().BoolVarP(&listCmd.Reverse, "reverse", "r", false, "reverse the ordering of the nodes")
	cmd.Flags().StringVar(&listCmd.Query, "query", "", "JSONPath expression applied to the JSON output")

	return cmd
}

type ListCommand struct {
	globals *Globals
	Full    bool
	JSON    bool
	Sort    string
	Reverse bool
	Query   string
}

func (l *ListCommand) list(cmd *cobra.Command, _ []string) error {
	by, err := render.ParseNodeSort(l.Sort)
	if err != nil {
		return err
	}
	if l.Query != "" && !l.JSON {
		return errors.New("--query requires --json")
	}

	session, err := l.globals.Session(cmd)
	if err != nil {
		return err
	}
	nodes, err := session.ListNodes(cmd.Context())
	if err != nil {
		return err
	}
	render.SortNodes(nodes, by, l.Reverse)

	out := cmd.OutOrStdout()
	switch {
	case l.JSON:
		return render.JSON(out, render.NodeDocument(nodes, l.Full), l.Query)
	case l.Full:
		_, err = fmt.Fprintln(out, render.NodeTable(nodes))
		return err
	default:
		return render.NodeLines(out, nodes)
	}
}
