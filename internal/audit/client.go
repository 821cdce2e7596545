package audit

import (
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// ClientLabel condenses a raw User-Agent string into a short display label
// for audit entries, e.g. "Chrome 120.0 on Mac OS X". Entries emitted
// outside an HTTP request (workers, CLI) have no user agent and get an
// empty label.
func ClientLabel(rawUserAgent string) string {
	if rawUserAgent == "" {
		return ""
	}

	ua := useragent.New(rawUserAgent)
	name, version := ua.Browser()
	osInfo := ua.OSInfo()

	os := osInfo.Name
	if os == "" {
		os = ua.Platform()
	}

	switch {
	case name != "" && os != "":
		if version != "" {
			return fmt.Sprintf("%s %s on %s", name, majorMinor(version), os)
		}
		return fmt.Sprintf("%s on %s", name, os)
	case name != "":
		return name
	case os != "":
		return os
	default:
		return strings.TrimSpace(rawUserAgent)
	}
}

// majorMinor trims a browser version down to its first two components.
func majorMinor(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) <= 2 {
		return version
	}
	return strings.Join(parts[:2], ".")
}
