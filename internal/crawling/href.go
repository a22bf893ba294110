package crawling

import "strings"

// Site locates listing and detail pages of one source.
type Site struct {
	// Origin is scheme and host, e.g. "https://www.snuh.org".
	Origin string
	// SectionBase is the directory relative hrefs resolve against; it ends with "/".
	SectionBase string
}

// NormalizeHref turns a listing href into an absolute detail URL. Rules are
// tried in order: absolute URLs are kept, "./x" and bare "x" resolve against
// the section base, "/x" resolves against the origin. Any "/./" left over is
// collapsed.
func (s Site) NormalizeHref(href string) string {
	href = strings.TrimSpace(href)

	var full string
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		full = href
	case strings.HasPrefix(href, "./"):
		full = s.SectionBase + href[2:]
	case strings.HasPrefix(href, "/"):
		full = s.Origin + href
	default:
		full = s.SectionBase + href
	}

	for strings.Contains(full, "/./") {
		full = strings.ReplaceAll(full, "/./", "/")
	}
	return full
}
