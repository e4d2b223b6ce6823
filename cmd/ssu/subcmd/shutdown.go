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
	"github.com/simplestation/ssu/kernel/model"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewShutdownCommand(g *Globals) *cobra.Command {
	shutdownCmd := &ShutdownCommand{globals: g}

	cmd := &cobra.Command{
		Use:   "shutdown <node>",
		Short: "Shut down a node",
		Long: `Shut down a node given by name or ID.

Using a name requires an additional request to the API. Use an ID when available.

Without flags the node is powered off. --force sends an ACPI shutdown,
--restart reboots it, and both together reset it.`,
		Args: cobra.ExactArgs(1),
		RunE: shutdownCmd.shutdown,
	}

	cmd.Flags().BoolVarP(&shutdownCmd.Restart, "restart", "r", false, "restart the node after shutting it down")
	cmd.Flags().BoolVar(&shutdownCmd.Force, "force", false, "use the forced variant")

	return cmd
}

type ShutdownCommand struct {
	globals *Globals
	Restart bool
	Force   bool
}

func (s *ShutdownCommand) shutdown(cmd *cobra.Command, args []string) error {
	session, err := s.globals.Session(cmd)
	if err != nil {
		return err
	}

	mode := model.ShutdownModeFor(s.Force, s.Restart)
	id, err := session.ShutdownNode(cmd.Context(), args[0], mode)
	if err != nil {
		return err
	}
	logrus.Infof("node %d: %s finished", id, mode)
	return nil
}
