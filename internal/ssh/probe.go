// Package ssh provides a lightweight host reachability probe over the SSH
// protocol. It is used by the configuration stage to decide when a freshly
// provisioned VM is ready for a playbook run.
package ssh

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// Prober attempts a lightweight reachability check against a single host.
type Prober interface {
	Probe(host string) error
}

// DialProber probes by attempting an SSH handshake. A completed handshake
// proves readiness; an authentication rejection still proves sshd is up,
// which is all the readiness poll needs.
type DialProber struct {
	User    string
	KeyPath string
	Port    int
	Timeout time.Duration
}

// NewDialProber creates a prober with the given connection parameters.
// KeyPath may start with "~/" which is expanded against the home directory.
func NewDialProber(user, keyPath string, port int) *DialProber {
	return &DialProber{
		User:    user,
		KeyPath: keyPath,
		Port:    port,
		Timeout: 10 * time.Second,
	}
}

// Probe implements Prober.
func (p *DialProber) Probe(host string) error {
	config := &ssh.ClientConfig{
		User:            p.User,
		Auth:            p.authMethods(),
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // #nosec G106 - ephemeral cloud hosts
		Timeout:         p.Timeout,
	}

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", p.Port))
	client, err := ssh.Dial("tcp", addr, config)
	if err == nil {
		_ = client.Close()
		return nil
	}

	// sshd answered but rejected our credentials: the host is reachable.
	if strings.Contains(err.Error(), "unable to authenticate") {
		return nil
	}

	return fmt.Errorf("host %s not reachable: %w", addr, err)
}

// authMethods loads the private key if present. A missing or unparsable key
// yields no auth methods; the probe then relies on the handshake reaching
// the authentication phase.
func (p *DialProber) authMethods() []ssh.AuthMethod {
	path := expandHome(p.KeyPath)
	data, err := os.ReadFile(path) // #nosec G304 - key path from run options
	if err != nil {
		return nil
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil
	}

	return []ssh.AuthMethod{ssh.PublicKeys(signer)}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
