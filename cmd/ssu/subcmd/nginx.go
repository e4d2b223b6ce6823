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
	"os"

	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/proxyconf"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewNginxConfigCommand(g *Globals) *cobra.Command {
	nginxCmd := &NginxConfigCommand{globals: g}

	cmd := &cobra.Command{
		Use:     "nginx-config [config.toml] [output]",
		Aliases: []string{"nginx"},
		Short:   "Generate nginx configuration for SimpleStation servers",
		Long: `Generate nginx server blocks from a TOML file listing the game servers
of a node and their ports.

The config path falls back to SSU_NGINX_CONFIG and the output path to
SSU_NGINX_OUTPUT. An existing output file is overwritten. Without an
output the configuration is printed to stdout.`,
		Args: cobra.MaximumNArgs(2),
		RunE: nginxCmd.generate,
	}

	cmd.Flags().StringVar(&nginxCmd.Upstream, "upstream", "", "address the servers are proxied to (default "+proxyconf.DefaultUpstream+")")
	cmd.Flags().StringVar(&nginxCmd.Domain, "domain", "", "base domain of the server names (default "+proxyconf.DefaultDomain+")")
	cmd.Flags().StringVar(&nginxCmd.Upload, "upload", "", "also upload the result over SFTP to user@host:/path")
	cmd.Flags().StringVar(&nginxCmd.Identity, "identity", "", "SSH private key used for --upload")

	return cmd
}

type NginxConfigCommand struct {
	globals  *Globals
	Upstream string
	Domain   string
	Upload   string
	Identity string
}

func (n *NginxConfigCommand) generate(cmd *cobra.Command, args []string) error {
	configPath := os.Getenv("SSU_NGINX_CONFIG")
	outputPath := os.Getenv("SSU_NGINX_OUTPUT")
	if len(args) > 0 {
		configPath = args[0]
	}
	if len(args) > 1 {
		outputPath = args[1]
	}
	if configPath == "" {
		return errors.New("a TOML config path is required (argument or SSU_NGINX_CONFIG)")
	}

	settings, err := n.globals.Config()
	if err != nil {
		return err
	}
	proxy := settings.Proxy

	cfg, err := proxyconf.Load(configPath)
	if err != nil {
		return err
	}
	out, err := proxyconf.Render(cfg, firstOf(n.Upstream, proxy.Upstream), firstOf(n.Domain, proxy.Domain))
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil {
			return errors.Wrapf(err, "unable to write '%s'", outputPath)
		}
		logrus.Infof("wrote %d server blocks to '%s'", len(cfg.Servers), outputPath)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}

	if upload := firstOf(n.Upload, proxy.Upload); upload != "" {
		target, err := proxyconf.ParseTarget(upload)
		if err != nil {
			return err
		}
		opts := proxyconf.UploadOptions{Identity: firstOf(n.Identity, proxy.Identity)}
		if err := proxyconf.Upload(cmd.Context(), target, []byte(out), opts); err != nil {
			return err
		}
	}
	return nil
}
