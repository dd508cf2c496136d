// Package web3url rewrites content-addressed web3 URLs (ipfs://, ipns://)
// into fetchable HTTPS URLs via a configurable gateway.
package web3url

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultGateway is the public IPFS gateway used when none is configured.
const DefaultGateway = "https://ipfs.io"

// ErrUnsupportedProtocol means the URL scheme is outside https/ipfs/ipns.
var ErrUnsupportedProtocol = errors.New("unsupported URL protocol")

// IsHTTPSURL reports whether s literally starts with "https://".
// This is a string-level gate, not a full parse.
func IsHTTPSURL(s string) bool {
	return strings.HasPrefix(s, "https://")
}

// ToHTTPSURL resolves href into a fetchable HTTPS URL.
// https URLs are returned parsed but otherwise unchanged; ipfs/ipns URLs are
// rewritten onto the gateway (the optional first element of gateway, or
// DefaultGateway), preserving path, query and fragment. Any other scheme
// fails with ErrUnsupportedProtocol.
func ToHTTPSURL(href string, gateway ...string) (*url.URL, error) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", href, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "https":
		return u, nil
	case "ipfs":
		return gatewayURL(u, "ipfs", gateway)
	case "ipns":
		return gatewayURL(u, "ipns", gateway)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, u.Scheme)
	}
}

// gatewayURL rebases u onto the gateway under /<kind>/<content-name>/<path>.
func gatewayURL(u *url.URL, kind string, gateway []string) (*url.URL, error) {
	base := DefaultGateway
	if len(gateway) > 0 && gateway[0] != "" {
		base = gateway[0]
	}

	gw, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway URL %q: %w", base, err)
	}

	resolved := *gw
	resolved.Path = strings.TrimSuffix(gw.Path, "/") + "/" + kind + "/" + u.Host + u.Path
	resolved.RawQuery = u.RawQuery
	resolved.Fragment = u.Fragment
	return &resolved, nil
}
