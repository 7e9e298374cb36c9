package translate

import "regexp"

var (
	ipRe        = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}(?:/\d{1,2})?\b`)
	domainRe    = regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}\b`)
	localhostRe = regexp.MustCompile(`\b(?:localhost|127\.0\.0\.1)\b`)
)

// DefaultTarget is used when the request names no host at all.
const DefaultTarget = "192.168.1.1"

// ExtractTarget pulls a scan target out of free text: an IPv4 address
// (optionally CIDR), then a domain name, then localhost, then the
// default gateway-ish address.
func ExtractTarget(text string) string {
	if m := ipRe.FindString(text); m != "" {
		return m
	}
	if m := domainRe.FindString(text); m != "" {
		return m
	}
	if m := localhostRe.FindString(text); m != "" {
		return m
	}
	return DefaultTarget
}
