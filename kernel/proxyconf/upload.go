package proxyconf

import (
	"context"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Target is a remote file given as user@host[:port]:/path.
type Target struct {
	User string
	Host string
	Path string
}

func ParseTarget(s string) (Target, error) {
	at := strings.Index(s, "@")
	if at <= 0 {
		return Target{}, errors.Errorf("upload target '%s' must look like user@host:/path", s)
	}
	rest := s[at+1:]
	colon := strings.LastIndex(rest, ":")
	if colon <= 0 || colon == len(rest)-1 {
		return Target{}, errors.Errorf("upload target '%s' must look like user@host:/path", s)
	}
	t := Target{User: s[:at], Host: rest[:colon], Path: rest[colon+1:]}
	if !path.IsAbs(t.Path) {
		return Target{}, errors.Errorf("upload path '%s' must be absolute", t.Path)
	}
	if _, _, err := net.SplitHostPort(t.Host); err != nil {
		t.Host = net.JoinHostPort(t.Host, "22")
	}
	return t, nil
}

func (t Target) String() string {
	return t.User + "@" + t.Host + ":" + t.Path
}

type UploadOptions struct {
	// Identity is the private key file. Defaults to ~/.ssh/id_ed25519.
	Identity string
	// KnownHosts defaults to ~/.ssh/known_hosts.
	KnownHosts string
	Timeout    time.Duration
}

// Upload writes content to the target over SFTP, replacing any existing file.
func Upload(ctx context.Context, target Target, content []byte, opts UploadOptions) error {
	config, err := clientConfig(target.User, opts)
	if err != nil {
		return err
	}

	dialer := &net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", target.Host)
	if err != nil {
		return errors.Wrapf(err, "unable to reach '%s'", target.Host)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, target.Host, config)
	if err != nil {
		_ = conn.Close()
		return errors.Wrapf(err, "ssh handshake with '%s' failed", target.Host)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer func() { _ = client.Close() }()

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		return errors.Wrap(err, "unable to start sftp session")
	}
	defer func() { _ = sftpClient.Close() }()

	if err := writeRemote(sftpClient, target.Path, content); err != nil {
		return err
	}
	pfxlog.Logger().Infof("uploaded %d bytes to %s", len(content), target)
	return nil
}

func writeRemote(client *sftp.Client, remotePath string, content []byte) error {
	if err := client.MkdirAll(path.Dir(remotePath)); err != nil {
		return errors.Wrapf(err, "unable to create '%s'", path.Dir(remotePath))
	}
	f, err := client.OpenFile(remotePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return errors.Wrapf(err, "unable to open '%s'", remotePath)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "unable to write '%s'", remotePath)
	}
	return errors.Wrapf(f.Close(), "unable to close '%s'", remotePath)
}

func clientConfig(user string, opts UploadOptions) (*ssh.ClientConfig, error) {
	home, _ := os.UserHomeDir()
	identity := opts.Identity
	if identity == "" {
		identity = filepath.Join(home, ".ssh", "id_ed25519")
	}
	knownHostsFile := opts.KnownHosts
	if knownHostsFile == "" {
		knownHostsFile = filepath.Join(home, ".ssh", "known_hosts")
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	key, err := os.ReadFile(identity)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read identity '%s'", identity)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse identity '%s'", identity)
	}
	hostKeys, err := knownhosts.New(knownHostsFile)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load known hosts '%s'", knownHostsFile)
	}

	return &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeys,
		Timeout:         timeout,
	}, nil
}
