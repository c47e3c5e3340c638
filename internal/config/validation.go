package config

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// jsonMarshal is split out so MarshalJSON stays free of an encoding/json
// import cycle through the aliased type.
func jsonMarshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Validate checks the configuration for invalid values (fail-fast).
// Returns sentinel errors wrapped with detail for errors.Is() checks.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidAddr, c.Addr, err)
	}

	if c.MaxHistory < 1 || c.MaxHistory > MaxAllowedHistory {
		return fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidMaxHistory, c.MaxHistory, MaxAllowedHistory)
	}

	if strings.TrimSpace(c.TempDir) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTempDir)
	}

	if err := validateRetailerSite(c.RetailerSite); err != nil {
		return err
	}

	if err := validateSearchEndpoint(c.SearchEndpoint); err != nil {
		return err
	}

	if c.SearchTimeout < 100 || c.SearchTimeout > 120000 {
		return fmt.Errorf("%w: %dms (must be 100-120000)", ErrInvalidTimeout, c.SearchTimeout)
	}

	lang := strings.ToLower(strings.TrimSpace(c.Language))
	if lang != "es" && lang != "en" {
		return fmt.Errorf("%w: %q (supported: es, en)", ErrInvalidLanguage, c.Language)
	}

	return nil
}

// validateRetailerSite accepts a bare domain like "carrefour.es".
// Schemes and paths are rejected since the value is spliced into a
// "site:" search operator.
func validateRetailerSite(site string) error {
	site = strings.TrimSpace(site)
	if site == "" {
		return fmt.Errorf("%w: empty", ErrInvalidRetailerSite)
	}
	if strings.ContainsAny(site, "/: ") {
		return fmt.Errorf("%w: %q (must be a bare domain)", ErrInvalidRetailerSite, site)
	}
	if !strings.Contains(site, ".") {
		return fmt.Errorf("%w: %q (missing TLD)", ErrInvalidRetailerSite, site)
	}
	return nil
}

func validateSearchEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSearchEndpoint, endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q (scheme must be http or https)", ErrInvalidSearchEndpoint, endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q (missing host)", ErrInvalidSearchEndpoint, endpoint)
	}
	return nil
}
