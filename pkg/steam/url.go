// Package steam normalizes Steam community profile URLs and resolves them
// to SteamID64 identifiers.
package steam

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidURL is returned when the input is not a recognizable profile URL.
	ErrInvalidURL = errors.New("invalid profile url")

	// ErrMalformedDirectURL is returned when a /profiles/ URL has no identifier.
	ErrMalformedDirectURL = errors.New("malformed profile url")

	// ErrVanityResolutionFailed is returned when a vanity name cannot be resolved.
	ErrVanityResolutionFailed = errors.New("vanity resolution failed")
)

// Kind tells vanity URLs apart from direct SteamID64 URLs.
type Kind int

const (
	// Direct is a /profiles/<steamid64> URL.
	Direct Kind = iota
	// Vanity is an /id/<name> URL.
	Vanity
)

func (k Kind) String() string {
	if k == Vanity {
		return "vanity"
	}
	return "direct"
}

const (
	segmentVanity  = "id"
	segmentProfile = "profiles"
)

// ProfileURL is a normalized profile URL: scheme, host and exactly two path
// segments, no query, no fragment. It doubles as the cache key.
type ProfileURL string

// Normalize parses raw and returns its canonical form. It performs no I/O
// and is idempotent.
func Normalize(raw string) (ProfileURL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute url", ErrInvalidURL, raw)
	}

	segments := pathSegments(u.Path)
	if len(segments) < 2 {
		return "", fmt.Errorf("%w: %q needs two path segments", ErrInvalidURL, raw)
	}
	if segments[0] != segmentVanity && segments[0] != segmentProfile {
		return "", fmt.Errorf("%w: unsupported path %q", ErrInvalidURL, u.Path)
	}

	normalized := url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   "/" + segments[0] + "/" + segments[1],
	}
	return ProfileURL(normalized.String()), nil
}

// String returns the URL text.
func (p ProfileURL) String() string {
	return string(p)
}

// segments returns the two path segments of an already normalized URL.
func (p ProfileURL) segments() []string {
	u, err := url.Parse(string(p))
	if err != nil {
		return nil
	}
	return pathSegments(u.Path)
}

// Classify reports whether p is a vanity or a direct URL.
func Classify(p ProfileURL) Kind {
	if segs := p.segments(); len(segs) > 0 && segs[0] == segmentVanity {
		return Vanity
	}
	return Direct
}

// ResolveDirect returns the SteamID64 carried by a /profiles/ URL verbatim.
func ResolveDirect(p ProfileURL) (string, error) {
	segs := p.segments()
	if len(segs) < 2 || segs[1] == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedDirectURL, p)
	}
	return segs[1], nil
}

// vanityName returns the name carried by an /id/ URL.
func vanityName(p ProfileURL) (string, bool) {
	segs := p.segments()
	if len(segs) < 2 || segs[0] != segmentVanity {
		return "", false
	}
	return segs[1], true
}

func pathSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
