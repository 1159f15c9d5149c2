package rdf

import (
	"net/url"
	"strings"
)

// Resolve implements RFC 3986 §5 reference resolution: relative is
// resolved against base to produce an absolute IRI. If relative already
// carries a scheme it is returned unchanged. Resolve fails with
// MissingBaseError when relative has no scheme and base is empty.
func Resolve(base, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err == nil && relURL.IsAbs() {
		return relative, nil
	}
	if base == "" {
		return "", &MissingBaseError{Relative: relative}
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", &ConstraintViolationError{Reason: "invalid base IRI: " + err.Error()}
	}
	// RFC 3986 §5.1: strip the base's fragment before resolving.
	baseURL.Fragment = ""
	baseURL.RawFragment = ""
	if relURL == nil {
		relURL, err = url.Parse(relative)
		if err != nil {
			return "", &ConstraintViolationError{Reason: "invalid relative IRI: " + err.Error()}
		}
	}
	return baseURL.ResolveReference(relURL).String(), nil
}

// RelativizeOptions constrains the forms Relativize is permitted to
// produce and bounds dot-notation growth.
type RelativizeOptions struct {
	// AllowSameDocument permits the fragment-only form ("#frag").
	AllowSameDocument bool
	// AllowAbsolutePath permits the absolute-path form ("/a/b").
	AllowAbsolutePath bool
	// AllowDotNotation permits relative paths, including "../" segments.
	AllowDotNotation bool
	// AllowSiblingDirectories permits dot-notation forms that go up and
	// then back down into a different directory ("../sibling/x").
	// When false, dot-notation is only produced for paths that do not
	// need to leave the base's directory tree downward after ascending.
	AllowSiblingDirectories bool
	// MaxUpLevels caps the number of ".." segments in dot-notation
	// output. Zero means unlimited.
	MaxUpLevels int
	// MaxAdditionalLength caps how much longer the relative form may be
	// than the absolute IRI it replaces. Zero means unlimited.
	MaxAdditionalLength int
}

// DefaultRelativizeOptions permits every relativization form with no
// additional bounds.
func DefaultRelativizeOptions() RelativizeOptions {
	return RelativizeOptions{
		AllowSameDocument:       true,
		AllowAbsolutePath:       true,
		AllowDotNotation:        true,
		AllowSiblingDirectories: true,
	}
}

// Relativize computes the shortest IRI reference that resolves back to
// absolute when resolved against base, preferring in order: same
// document, absolute-path, dot-notation, falling back to absolute when
// none of the permitted forms is shorter. Relativize is a left inverse
// of Resolve: Resolve(base, Relativize(base, absolute, opts)) == absolute.
func Relativize(base, absolute string, opts RelativizeOptions) string {
	baseURL, errB := url.Parse(base)
	absURL, errA := url.Parse(absolute)
	if errB != nil || errA != nil || base == "" {
		return absolute
	}
	baseNoFrag := *baseURL
	baseNoFrag.Fragment = ""
	baseNoFrag.RawFragment = ""

	type candidate struct {
		value string
		rank  int
	}
	var candidates []candidate

	if opts.AllowSameDocument && absURL.Fragment != "" {
		absNoFrag := *absURL
		absNoFrag.Fragment = ""
		absNoFrag.RawFragment = ""
		if absNoFrag.String() == baseNoFrag.String() {
			candidates = append(candidates, candidate{"#" + absURL.EscapedFragment(), 0})
		}
	}

	sameAuthority := baseURL.Scheme == absURL.Scheme && baseURL.Host == absURL.Host && baseURL.User.String() == absURL.User.String()
	if sameAuthority {
		suffix := tailOf(absURL)
		if opts.AllowAbsolutePath {
			candidates = append(candidates, candidate{absURL.EscapedPath() + suffix, 1})
		}
		if opts.AllowDotNotation {
			if dotted, ok := dotPath(baseURL.Path, absURL.Path, opts); ok {
				candidates = append(candidates, candidate{dotted + suffix, 2})
			}
		}
	}

	candidates = append(candidates, candidate{absolute, 3})

	best := candidates[0]
	for _, c := range candidates[1:] {
		if opts.MaxAdditionalLength > 0 && c.rank != 3 && len(c.value) > len(absolute)+opts.MaxAdditionalLength {
			continue
		}
		if best.rank == 3 && len(c.value) <= len(absolute)+max(0, opts.MaxAdditionalLength) && c.rank != 3 {
			best = c
			continue
		}
		if len(c.value) < len(best.value) {
			best = c
		} else if len(c.value) == len(best.value) && c.rank < best.rank {
			best = c
		}
	}
	return best.value
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func tailOf(u *url.URL) string {
	var sb strings.Builder
	if u.RawQuery != "" {
		sb.WriteString("?")
		sb.WriteString(u.RawQuery)
	}
	if u.Fragment != "" {
		sb.WriteString("#")
		sb.WriteString(u.EscapedFragment())
	}
	return sb.String()
}

// dotPath computes the dot-notation relative path from basePath to
// targetPath, honoring the up-level and sibling-directory constraints.
func dotPath(basePath, targetPath string, opts RelativizeOptions) (string, bool) {
	baseDirs, _ := splitPathDirs(basePath)
	targetDirs, targetFile := splitPathDirs(targetPath)

	common := 0
	for common < len(baseDirs) && common < len(targetDirs) && baseDirs[common] == targetDirs[common] {
		common++
	}
	upLevels := len(baseDirs) - common
	downDirs := targetDirs[common:]

	if opts.MaxUpLevels > 0 && upLevels > opts.MaxUpLevels {
		return "", false
	}
	if upLevels > 0 && len(downDirs) > 0 && !opts.AllowSiblingDirectories {
		return "", false
	}

	var sb strings.Builder
	for i := 0; i < upLevels; i++ {
		sb.WriteString("../")
	}
	for _, d := range downDirs {
		sb.WriteString(d)
		sb.WriteString("/")
	}
	sb.WriteString(targetFile)
	result := sb.String()
	if result == "" {
		result = "./"
	}
	if first := strings.SplitN(result, "/", 2)[0]; strings.Contains(first, ":") {
		// A colon in the first segment would be read back as a scheme.
		result = "./" + result
	}
	return result, true
}

// splitPathDirs splits an absolute URL path into its directory segments
// and trailing file segment (which may be empty for a directory path).
func splitPathDirs(path string) (dirs []string, file string) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return nil, ""
	}
	parts := strings.Split(trimmed, "/")
	return parts[:len(parts)-1], parts[len(parts)-1]
}
