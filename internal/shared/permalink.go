package shared

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrInvalidURL = errors.New("invalid reel url")

	shortcodePathRe = regexp.MustCompile(`^/(?:reel|p)/([A-Za-z0-9_-]+)(?:/|$)`)
	bareShortcodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// NormalizePermalink drops query and fragment and ensures a trailing slash.
func NormalizePermalink(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", errors.Join(ErrInvalidURL, err)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery, u.Fragment, u.RawFragment = "", "", ""
	u.ForceQuery = false
	return u.String(), nil
}

// ShortcodeFromURL extracts the code from instagram.com /reel/<code>/ and
// /p/<code>/ permalinks. ok is false for any other host or path.
func ShortcodeFromURL(raw string) (code string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !instagramHost(u.Hostname()) {
		return "", false
	}
	m := shortcodePathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ResolveShortcode accepts either a permalink or a bare shortcode.
func ResolveShortcode(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if bareShortcodeRe.MatchString(arg) {
		return arg, nil
	}
	norm, err := NormalizePermalink(arg)
	if err != nil {
		return "", err
	}
	if code, ok := ShortcodeFromURL(norm); ok {
		return code, nil
	}
	return "", errors.Join(ErrInvalidURL, errors.New("no shortcode in "+arg))
}

func instagramHost(h string) bool {
	h = strings.ToLower(h)
	return h == "instagram.com" || strings.HasSuffix(h, ".instagram.com")
}
