package naming

import (
	"regexp"
	"strings"

	"rebatch/internal/model"
)

// RemoveText reads the accumulated name built by earlier modules (not
// the original base name) and removes the first or all matches of
// Pattern, per spec §4.3. An invalid regex invalidates every row that
// would apply it.
type RemoveText struct {
	Config model.RemoveTextConfig

	compiled    *regexp.Regexp
	compileErr  error
	compileOnce bool
}

func (r *RemoveText) Fragment(ctx FragmentContext) (string, *model.Diagnosis) {
	if r.Config.UseRegex {
		if !r.compileOnce {
			r.compileOnce = true
			pattern := r.Config.Pattern
			if !r.Config.CaseSensitive {
				pattern = "(?i)" + pattern
			}
			r.compiled, r.compileErr = regexp.Compile(pattern)
		}
		if r.compileErr != nil {
			d := model.Invalid("bad_pattern")
			return "", &d
		}
		if r.Config.FirstOnly {
			return replaceFirst(r.compiled, ctx.Accumulated), nil
		}
		return r.compiled.ReplaceAllString(ctx.Accumulated, ""), nil
	}

	if r.Config.Pattern == "" {
		return ctx.Accumulated, nil
	}

	if r.Config.FirstOnly {
		return removeFirstLiteral(ctx.Accumulated, r.Config.Pattern, r.Config.CaseSensitive), nil
	}
	return removeAllLiteral(ctx.Accumulated, r.Config.Pattern, r.Config.CaseSensitive), nil
}

func replaceFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

func removeFirstLiteral(s, pattern string, caseSensitive bool) string {
	haystack, needle := s, pattern
	if !caseSensitive {
		haystack, needle = strings.ToLower(s), strings.ToLower(pattern)
	}
	idx := strings.Index(haystack, needle)
	if idx < 0 {
		return s
	}
	return s[:idx] + s[idx+len(pattern):]
}

func removeAllLiteral(s, pattern string, caseSensitive bool) string {
	if caseSensitive {
		return strings.ReplaceAll(s, pattern, "")
	}
	var b strings.Builder
	lowerS, lowerPattern := strings.ToLower(s), strings.ToLower(pattern)
	i := 0
	for {
		idx := strings.Index(lowerS[i:], lowerPattern)
		if idx < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+idx])
		i += idx + len(pattern)
	}
	return b.String()
}
