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
	"github.com/simplestation/ssu/kernel/mcp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewMCPServerCommand(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Start MCP server for AI-driven node management",
		Long: `Start an MCP (Model Context Protocol) server on stdio that exposes the
node workflows to AI assistants.

The server provides tools for:
  - list_nodes: List all nodes with status and shape
  - shutdown_node: Power off, shut down, reboot or reset a node
  - startup_node: Power on a node
  - rescale_node: Move a node to another shape, or list compatible shapes
  - render_proxy_config: Render nginx server blocks from a TOML file

And resources:
  - ssu://nodes: Every node with status and shape`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := g.Session(cmd)
			if err != nil {
				return err
			}

			logrus.Info("starting MCP server on stdio...")
			return mcp.NewNodeServer(session, Version).ServeStdio()
		},
	}
}
