package naming

import "strings"

// greeklishDigraphs and greekToLatinRune form a deterministic
// transliteration table, the ordered-table dispatch idiom from
// whatsoevan-backupbozo/metadata/extractor.go's EXIF date-field
// preference list applied to Greek-to-Latin runes instead of EXIF
// field names. Transliterate replaces the digraphs first, one
// strings.ReplaceAll per entry in list order, then single runes.
var greeklishDigraphs = []struct{ from, to string }{
	{"Αι", "Ai"}, {"αι", "ai"},
	{"Ει", "Ei"}, {"ει", "ei"},
	{"Οι", "Oi"}, {"οι", "oi"},
	{"Ου", "Ou"}, {"ου", "ou"},
	{"Αυ", "Af"}, {"αυ", "af"},
	{"Ευ", "Ef"}, {"ευ", "ef"},
	{"Γγ", "Ng"}, {"γγ", "ng"},
	{"Γκ", "Gk"}, {"γκ", "gk"},
	{"Μπ", "B"}, {"μπ", "b"},
	{"Ντ", "D"}, {"ντ", "d"},
	{"Τσ", "Ts"}, {"τσ", "ts"},
	{"Τζ", "Tz"}, {"τζ", "tz"},
}

var greekToLatinRune = map[rune]string{
	'Α': "A", 'Β': "V", 'Γ': "G", 'Δ': "D", 'Ε': "E", 'Ζ': "Z", 'Η': "I",
	'Θ': "Th", 'Ι': "I", 'Κ': "K", 'Λ': "L", 'Μ': "M", 'Ν': "N", 'Ξ': "X",
	'Ο': "O", 'Π': "P", 'Ρ': "R", 'Σ': "S", 'Τ': "T", 'Υ': "Y", 'Φ': "F",
	'Χ': "Ch", 'Ψ': "Ps", 'Ω': "O",
	'α': "a", 'β': "v", 'γ': "g", 'δ': "d", 'ε': "e", 'ζ': "z", 'η': "i",
	'θ': "th", 'ι': "i", 'κ': "k", 'λ': "l", 'μ': "m", 'ν': "n", 'ξ': "x",
	'ο': "o", 'π': "p", 'ρ': "r", 'σ': "s", 'ς': "s", 'τ': "t", 'υ': "y",
	'φ': "f", 'χ': "ch", 'ψ': "ps", 'ω': "o",
	'Ά': "A", 'Έ': "E", 'Ή': "I", 'Ί': "I", 'Ό': "O", 'Ύ': "Y", 'Ώ': "O",
	'ά': "a", 'έ': "e", 'ή': "i", 'ί': "i", 'ό': "o", 'ύ': "y", 'ώ': "o",
}

// Transliterate maps Greek letters in s to their Latin equivalents,
// leaving non-Greek runes untouched. Digraphs are substituted before
// single-rune mapping so e.g. "ου" becomes "ou" rather than "o"+"y".
func Transliterate(s string) string {
	for _, dg := range greeklishDigraphs {
		s = strings.ReplaceAll(s, dg.from, dg.to)
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if latin, ok := greekToLatinRune[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
