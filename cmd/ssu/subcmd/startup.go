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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewStartupCommand(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "startup <node>",
		Short: "Start up a node",
		Long: `Power on a node given by name or ID.

Using a name requires an additional request to the API. Use an ID when available.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := g.Session(cmd)
			if err != nil {
				return err
			}
			id, err := session.StartupNode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			logrus.Infof("node %d: started", id)
			return nil
		},
	}
}
