// Package sshkey loads and validates the user's SSH public key material.
//
// The tool never generates or reads private keys; it imports the configured
// public key into the provider and derives the matching private key path for
// the rendered ssh_config only.
package sshkey

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

// PublicKey is a parsed OpenSSH public key ready for provider import.
type PublicKey struct {
	// Path is the expanded filesystem path the key was read from.
	Path string
	// Material is the raw authorized_keys line as read from disk.
	Material string
	// Type is the key algorithm, e.g. "ssh-ed25519".
	Type string
	// Fingerprint is the SHA256 fingerprint in OpenSSH notation.
	Fingerprint string
	// Comment is the trailing comment field, often user@host.
	Comment string
}

// Load reads and parses the public key at path. The path may start with "~"
// to refer to the user's home directory.
func Load(path string) (*PublicKey, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH public key %s: %w", expanded, err)
	}

	parsed, comment, _, _, err := ssh.ParseAuthorizedKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid OpenSSH public key: %w", expanded, err)
	}

	return &PublicKey{
		Path:        expanded,
		Material:    strings.TrimSpace(string(raw)),
		Type:        parsed.Type(),
		Fingerprint: ssh.FingerprintSHA256(parsed),
		Comment:     comment,
	}, nil
}

// DerivePrivatePath strips a ".pub" suffix from a public key path. The result
// is only ever written into ssh_config; the file is never opened.
func DerivePrivatePath(publicPath string) string {
	return strings.TrimSuffix(publicPath, ".pub")
}

// ExpandHome resolves a leading "~" or "~/" against the current user's home
// directory. Paths without the prefix are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory for %q: %w", path, err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
