package proxyconf

import (
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

const (
	DefaultUpstream = "5.161.216.140"
	DefaultDomain   = "simplestation.org"
)

// BlockParams names every value substituted into one server block.
type BlockParams struct {
	Name     string
	Port     uint16
	Node     string
	Upstream string
	Domain   string
}

func (p BlockParams) withDefaults() BlockParams {
	if p.Upstream == "" {
		p.Upstream = DefaultUpstream
	}
	if p.Domain == "" {
		p.Domain = DefaultDomain
	}
	return p
}

// Host is the public name the block answers on.
func (p BlockParams) Host() string {
	p = p.withDefaults()
	return p.Name + ".node-" + p.Node + "." + p.Domain
}

var blockTemplate = template.Must(template.New("server").Parse(`
server {
	listen 80;
	listen 443 ssl;
	server_name {{ .Host }};

	location / {
		proxy_pass http://{{ .Upstream }}:{{ .Port }};
		include /etc/nginx/proxy_params;
		add_header 'Access-Control-Allow-Origin' '*';
	}

	ssl_certificate /etc/letsencrypt/live/{{ .Host }}/fullchain.pem; # managed by Certbot
	ssl_certificate_key /etc/letsencrypt/live/{{ .Host }}/privkey.pem; # managed by Certbot
}
`))

// Block renders a single nginx server block.
func Block(p BlockParams) (string, error) {
	var sb strings.Builder
	if err := blockTemplate.Execute(&sb, p.withDefaults()); err != nil {
		return "", errors.Wrapf(err, "unable to render block for '%s'", p.Name)
	}
	return sb.String(), nil
}

// Render concatenates the blocks for every server in cfg, ordered by
// server name so the output is stable.
func Render(cfg *Config, upstream, domain string) (string, error) {
	var sb strings.Builder
	for _, name := range cfg.ServerNames() {
		block, err := Block(BlockParams{
			Name:     name,
			Port:     cfg.Servers[name],
			Node:     cfg.Node,
			Upstream: upstream,
			Domain:   domain,
		})
		if err != nil {
			return "", err
		}
		sb.WriteString(block)
	}
	return sb.String(), nil
}
