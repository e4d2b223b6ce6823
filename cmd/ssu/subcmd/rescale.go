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
	"strconv"

	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/model"
	"github.com/simplestation/ssu/kernel/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewRescaleCommand(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "rescale <node> [shape-id]",
		Short: "Move a node to a compatible shape, or list the compatible shapes",
		Long: `Rescale a node from its current shape to a compatible shape.

A running node is powered off first and left off afterwards. Without a
shape ID the shapes the node could move to are listed instead.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.RescaleRequest{Node: args[0]}
			if len(args) == 2 {
				target, err := parseShapeID(args[1])
				if err != nil {
					return err
				}
				req.TargetShape = &target
			}

			session, err := g.Session(cmd)
			if err != nil {
				return err
			}
			outcome, err := session.Rescale(cmd.Context(), req)
			if err != nil {
				return err
			}

			if req.TargetShape == nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Shapes compatible with current shape: %s\n", outcome.CurrentShape)
				_, err = fmt.Fprintln(out, render.ShapeTable(outcome.Shapes))
				return err
			}
			logrus.Infof("node %d: rescaled from %s to shape %d", outcome.NodeID, outcome.CurrentShape, *req.TargetShape)
			return nil
		},
	}
}

func parseShapeID(value string) (model.ShapeID, error) {
	id, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return 0, errors.Errorf("invalid shape ID '%s'", value)
	}
	return model.ShapeID(id), nil
}
