// Package jidaddr validates the addressable-JID-shaped names carried by
// conference-modify (dialect v2) requests. It does not implement full XMPP
// nodeprep/resourceprep — only the structural "localpart@domainpart" shape
// the router needs to reject malformed names before creating a conference.
//
// The sigil-delimited-identifier parsing shape is adapted from
// bureau-foundation-bureau's lib/ref Matrix "@local:server" parser to
// XMPP's "local@domain" separator.
package jidaddr

import (
	"fmt"
	"strings"
)

// Valid reports whether name is structurally a valid bare JID: a non-empty
// local part containing no whitespace or '/', exactly one '@', and a
// non-empty domain part containing at least one '.' and no whitespace or
// additional '@'.
func Valid(name string) bool {
	return Parse(name) == nil
}

// Parse returns a descriptive error if name is not a syntactically valid
// addressable JID, or nil if it is.
func Parse(name string) error {
	if name == "" {
		return fmt.Errorf("jid: empty")
	}
	at := strings.IndexByte(name, '@')
	if at < 0 {
		return fmt.Errorf("jid %q: missing '@'", name)
	}
	local := name[:at]
	domain := name[at+1:]
	if local == "" {
		return fmt.Errorf("jid %q: empty local part", name)
	}
	if domain == "" {
		return fmt.Errorf("jid %q: empty domain part", name)
	}
	if strings.ContainsAny(local, " \t\n@/") {
		return fmt.Errorf("jid %q: local part contains an invalid character", name)
	}
	if strings.ContainsAny(domain, " \t\n@") {
		return fmt.Errorf("jid %q: domain part contains an invalid character", name)
	}
	if !strings.Contains(domain, ".") {
		return fmt.Errorf("jid %q: domain part has no '.'", name)
	}
	return nil
}
