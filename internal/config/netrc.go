package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const netrcDefaultMachine = "default"

// netrcPath returns $NETRC, or ~/.netrc when it is unset.
func netrcPath() string {
	if p := os.Getenv("NETRC"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netrc")
}

// netrcPasswords returns the password of every machine in the .netrc at path,
// keyed by machine name. The default entry is keyed "default". A missing file
// yields no entries.
func netrcPasswords(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("netrc: read: %w", err)
	}

	var tokens []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		tokens = append(tokens, strings.Fields(line)...)
	}

	passwords := make(map[string]string)
	machine := ""
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "default":
			machine = netrcDefaultMachine
		case "machine":
			machine = ""
			if i+1 < len(tokens) {
				i++
				machine = tokens[i]
			}
		case "password":
			if i+1 < len(tokens) {
				i++
				if machine != "" {
					passwords[machine] = tokens[i]
				}
			}
		case "login", "account":
			// Azure DevOps ignores the user name; skip the value.
			i++
		}
	}

	return passwords, nil
}

// netrcPAT returns the .netrc password for the host of site. It tries the
// host with port, the bare host and then the default entry.
func netrcPAT(site string) (string, error) {
	path := netrcPath()
	if path == "" {
		return "", nil
	}

	passwords, err := netrcPasswords(path)
	if err != nil || len(passwords) == 0 {
		return "", err
	}

	host := site
	if parsed, err := url.Parse(site); err == nil && parsed.Host != "" {
		host = parsed.Host
	}

	candidates := []string{host}
	if bare, _, err := net.SplitHostPort(host); err == nil {
		candidates = append(candidates, bare)
	}
	candidates = append(candidates, netrcDefaultMachine)

	for _, machine := range candidates {
		if pat, ok := passwords[machine]; ok {
			return pat, nil
		}
	}
	return "", nil
}

// applyNetrcDefaults fills in a missing PAT from .netrc.
func (c *Config) applyNetrcDefaults() error {
	creds := &c.AzureDevOps.Credentials
	if creds.PAT != "" || creds.OAuthToken != "" {
		return nil
	}

	site := c.AzureDevOps.BaseURL
	if site == "" {
		site = DefaultBaseURL
	}

	pat, err := netrcPAT(site)
	if err != nil {
		return fmt.Errorf("config: load azure devops netrc: %w", err)
	}
	creds.PAT = pat

	return nil
}
