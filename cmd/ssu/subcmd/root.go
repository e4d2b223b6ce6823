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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/engine"
	"github.com/simplestation/ssu/kernel/loader"
	"github.com/simplestation/ssu/kernel/model"
	"github.com/simplestation/ssu/kernel/provider"
	"github.com/simplestation/ssu/kernel/secrets"
	"github.com/simplestation/ssu/kernel/telemetry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultProvider = "hetzner"

// Globals holds the persistent flags and the lazily built session shared
// by every subcommand of one invocation.
type Globals struct {
	Token       string
	TokenFile   bool
	TokenSecret string
	ConfigPath  string
	Provider    string
	Endpoint    string
	Verbose     bool
	Quiet       bool

	config   *loader.Config
	session  *engine.Session
	reporter telemetry.Reporter
}

// Execute runs ssu with os.Args.
func Execute(ctx context.Context) error {
	g := &Globals{}
	defer g.Close()
	return NewRootCommand(g).ExecuteContext(ctx)
}

func NewRootCommand(g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssu",
		Short: "Manage SimpleStation nodes",
		Long: `ssu manages the cloud servers ("nodes") behind SimpleStation.

It lists nodes, shuts them down or starts them up, moves them to another
shape and renders the nginx configuration for the game servers they host.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case g.Verbose:
				logrus.SetLevel(logrus.DebugLevel)
			case g.Quiet:
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&g.Token, "token", "t", os.Getenv("SSU_API_TOKEN"), "API token used for authentication")
	flags.BoolVarP(&g.TokenFile, "token-file", "f", envBool("SSU_API_TOKEN_FILE"), "interpret --token as the path of a file holding the token")
	flags.StringVar(&g.TokenSecret, "token-secret", os.Getenv("SSU_API_TOKEN_SECRET"), "AWS Secrets Manager ARN holding the token")
	flags.StringVar(&g.ConfigPath, "config", os.Getenv("SSU_CONFIG"), "path to the YAML config file (default "+loader.DefaultConfigPath()+")")
	flags.StringVar(&g.Provider, "provider", os.Getenv("SSU_PROVIDER"), "node provider: hetzner or memory (default "+defaultProvider+")")
	flags.StringVar(&g.Endpoint, "endpoint", os.Getenv("SSU_ENDPOINT"), "override the provider API endpoint")
	flags.BoolVarP(&g.Verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&g.Quiet, "quiet", "q", false, "suppress progress output")

	cmd.AddCommand(
		NewListCommand(g),
		NewShutdownCommand(g),
		NewStartupCommand(g),
		NewRescaleCommand(g),
		NewNginxConfigCommand(g),
		NewMCPServerCommand(g),
		NewVersionCommand(),
	)
	return cmd
}

// Config loads the config file once. A missing file at the default
// location is not an error; a missing file that was asked for is.
func (g *Globals) Config() (*loader.Config, error) {
	if g.config != nil {
		return g.config, nil
	}

	path := g.ConfigPath
	explicit := path != ""
	if !explicit {
		path = loader.DefaultConfigPath()
	}

	cfg, err := loader.LoadConfig(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			pfxlog.Logger().Debugf("no config file at '%s'", path)
			cfg = &loader.Config{}
		} else {
			return nil, err
		}
	}
	g.config = cfg
	return cfg, nil
}

// Session builds the authenticated session on first use. Flags and
// environment win over the config file.
func (g *Globals) Session(cmd *cobra.Command) (*engine.Session, error) {
	if g.session != nil {
		return g.session, nil
	}

	cfg, err := g.Config()
	if err != nil {
		return nil, err
	}

	name := firstOf(g.Provider, cfg.Provider, defaultProvider)
	token, err := secrets.Resolve(cmd.Context(), g.tokenSource(cfg))
	if err != nil && !errors.Is(err, secrets.ErrNoToken) {
		return nil, err
	}

	client, err := provider.NewClient(name, provider.Settings{
		Token:       token,
		Endpoint:    firstOf(g.Endpoint, cfg.Endpoint),
		Application: "ssu",
		Version:     Version,
	})
	if err != nil {
		return nil, err
	}

	session := engine.NewSession(client).WithProgress(g.progressWriter(cmd.OutOrStdout()))
	if cfg.Telemetry.Enabled() {
		reporter, err := telemetry.NewInfluxReporter(cfg.Telemetry)
		if err != nil {
			return nil, err
		}
		g.reporter = reporter
		session = session.WithTelemetry(reporter)
	}

	pfxlog.Logger().Debugf("using provider '%s'", name)
	g.session = session
	return session, nil
}

// Close releases the telemetry client, if one was created.
func (g *Globals) Close() {
	if g.reporter != nil {
		g.reporter.Close()
		g.reporter = nil
	}
}

func (g *Globals) tokenSource(cfg *loader.Config) secrets.Source {
	if g.Token != "" || g.TokenSecret != "" {
		return secrets.Source{Token: g.Token, TokenIsFile: g.TokenFile, SecretARN: g.TokenSecret}
	}
	switch {
	case cfg.Token != "":
		return secrets.Source{Token: cfg.Token}
	case cfg.TokenFile != "":
		return secrets.Source{Token: cfg.TokenFile, TokenIsFile: true}
	}
	return secrets.Source{SecretARN: cfg.TokenSecret}
}

// progressWriter only lets progress through to an interactive terminal.
func (g *Globals) progressWriter(out io.Writer) io.Writer {
	if g.Quiet {
		return io.Discard
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return f
	}
	return io.Discard
}

// ReportError prints err the way the user should see it.
func ReportError(w io.Writer, err error) {
	var resolution *model.ResolutionError
	var failure *model.ActionFailure
	var timeout *model.TimeoutExceeded
	switch {
	case errors.As(err, &resolution):
		fmt.Fprintf(w, "No node found with the name or ID '%s'\n", resolution.Identifier)
	case errors.As(err, &failure):
		fmt.Fprintf(w, "Encountered an error: %s: %s\n", failure.Code, failure.Message)
	case errors.As(err, &timeout):
		fmt.Fprintln(w, "Server did not shut down in time, aborting...")
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// ExitCode maps an error returned by Execute to the process exit status.
// Every failure exits with 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func envBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes":
		return true
	}
	return false
}
