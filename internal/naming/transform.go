package naming

import (
	"strings"
	"unicode"

	"rebatch/internal/model"
)

// separatorRunes are the characters NameTransform treats as word
// separators for both substitution and case-policy word splitting.
const separatorRunes = " _-."

// Transform applies the terminal post-transform step: separator
// substitution, then case policy, then optional outer trim — applied
// exactly once, at the end of composition, per spec §4.3. Extension is
// never touched; callers apply Transform to the base name only.
type Transform struct {
	Config model.NameTransformConfig
}

func (t *Transform) Apply(name string) string {
	name = applySeparatorPolicy(name, t.Config.SeparatorPolicy)
	name = applyCasePolicy(name, t.Config.CasePolicy)
	if t.Config.Trim {
		name = strings.TrimSpace(name)
		name = strings.Trim(name, ".")
	}
	return name
}

func applySeparatorPolicy(name string, policy model.SeparatorPolicy) string {
	var replacement string
	switch policy {
	case model.SeparatorUnderscore:
		replacement = "_"
	case model.SeparatorDash:
		replacement = "-"
	case model.SeparatorSpace:
		replacement = " "
	case model.SeparatorStrip:
		replacement = ""
	default: // SeparatorKeep or unset
		return name
	}

	var b strings.Builder
	b.Grow(len(name))
	inRun := false
	for _, r := range name {
		if strings.ContainsRune(separatorRunes, r) {
			if !inRun {
				b.WriteString(replacement)
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

func applyCasePolicy(name string, policy model.CasePolicy) string {
	switch policy {
	case model.CaseLower:
		return strings.ToLower(name)
	case model.CaseUpper:
		return strings.ToUpper(name)
	case model.CaseTitle:
		return titleCaseWords(name)
	case model.CaseSentence:
		return sentenceCase(name)
	default: // CaseAsIs or unset
		return name
	}
}

func titleCaseWords(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	startOfWord := true
	for _, r := range name {
		if strings.ContainsRune(separatorRunes, r) {
			startOfWord = true
			b.WriteRune(r)
			continue
		}
		if startOfWord {
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func sentenceCase(name string) string {
	lower := strings.ToLower(name)
	for _, r := range lower {
		return strings.ToUpper(string(r)) + lower[len(string(r)):]
	}
	return lower
}
