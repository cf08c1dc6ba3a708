package client

import (
	"fmt"
	"net/url"
)

// ParseEndpoint splits a full endpoint URL into its base URL and path, so
// clients configured with complete URLs can still report the parametrised
// path as a metrics label.
func ParseEndpoint(raw string) (baseURL, path string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid endpoint %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", fmt.Errorf("endpoint %q must be an absolute URL", raw)
	}

	base := u.Scheme + "://" + u.Host
	p := u.Path
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return base, p, nil
}
