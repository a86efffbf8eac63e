package searchclient

import (
	"net/url"
	"strings"
)

// authoritativeHostSuffixes get a boost over an unweighted 1.0 baseline;
// knownLowSignalHosts get a penalty. Anything else stays neutral.
var authoritativeHostSuffixes = []string{
	".gov", ".edu", "wikipedia.org", "arxiv.org", "github.com", "stackoverflow.com", "nature.com",
}

var lowSignalHosts = []string{
	"pinterest.", "quora.com", "answers.com",
}

// ExtractHostname returns the lowercased host of rawURL, or "" if it does
// not parse.
func (c *Client) ExtractHostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// HostnameBoost rewards well-known authoritative domains and penalizes
// known low-signal aggregators; everything else is neutral.
func (c *Client) HostnameBoost(hostname string) float64 {
	hostname = strings.ToLower(hostname)
	for _, suffix := range authoritativeHostSuffixes {
		if strings.HasSuffix(hostname, suffix) || strings.Contains(hostname, suffix) {
			return 1.25
		}
	}
	for _, bad := range lowSignalHosts {
		if strings.Contains(hostname, bad) {
			return 0.8
		}
	}
	return 1.0
}

// PathBoost slightly favors URLs with a specific (deeper) path over a
// bare domain root, on the theory that root pages are usually landing
// pages rather than the content being searched for.
func (c *Client) PathBoost(path string) float64 {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return 0.95
	}
	segments := strings.Split(trimmed, "/")
	if len(segments) >= 2 {
		return 1.1
	}
	return 1.0
}
