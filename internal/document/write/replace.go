package write

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// minFindLength guards against replacing fragments so short they
	// could match unrelated text.
	minFindLength = 15
	// maxReplaceGrowth bounds how much longer a replacement may be than
	// the text it replaces, to keep layout intact.
	maxReplaceGrowth = 50
)

const bulletGlyphs = "•▪◦●·‣–-*"

// Replacement is one find/replace edit to apply to a document.
type Replacement struct {
	Find    string `json:"find"`
	Replace string `json:"replace"`
}

const (
	skipTooShort = "find text too short"
	skipTooLong  = "replacement too much longer than original"
	skipNotFound = "find text not present in document"
)

// checkReplacement returns a skip reason, or "" if the edit is applicable.
func checkReplacement(rep Replacement) string {
	if len(strings.TrimSpace(rep.Find)) < minFindLength {
		return skipTooShort
	}
	if len(rep.Replace) > len(rep.Find)+maxReplaceGrowth {
		return skipTooLong
	}
	return ""
}

// applyToParagraph rewrites the first occurrence of find inside the
// paragraph, touching only the text elements the match spans. Runs
// outside the match keep their formatting untouched.
func applyToParagraph(p *xmlNode, find, replace string) bool {
	combined := paragraphText(p)

	start := strings.Index(combined, find)
	length := len(find)
	if start == -1 {
		loc := normalizedMatch(combined, find)
		if loc == nil {
			return false
		}
		start, length = loc[0], loc[1]-loc[0]
	}

	replace = preserveBullet(combined, start, replace)

	texts := collectTextElements(p)
	offset := 0
	firstIdx, lastIdx := -1, -1
	firstStart, lastEnd := 0, 0
	for i, node := range texts {
		text := nodeText(node)
		nodeStart, nodeEnd := offset, offset+len(text)
		if nodeEnd > start && nodeStart < start+length {
			if firstIdx == -1 {
				firstIdx = i
				firstStart = nodeStart
			}
			lastIdx = i
			lastEnd = nodeEnd
		}
		offset = nodeEnd
	}
	if firstIdx == -1 {
		return false
	}

	updated := combined[firstStart:start] + replace + combined[start+length:lastEnd]
	setNodeText(texts[firstIdx], updated)
	ensureSpacePreserve(texts[firstIdx], updated)
	for i := firstIdx + 1; i <= lastIdx; i++ {
		setNodeText(texts[i], "")
	}
	return true
}

// normalizedMatch locates find in text ignoring whitespace differences.
func normalizedMatch(text, find string) []int {
	fields := strings.Fields(find)
	if len(fields) == 0 {
		return nil
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = regexp.QuoteMeta(f)
	}
	pattern, err := regexp.Compile(strings.Join(quoted, `\s+`))
	if err != nil {
		return nil
	}
	return pattern.FindStringIndex(text)
}

// preserveBullet keeps a leading bullet glyph when the match covers the
// start of a bulleted line.
func preserveBullet(combined string, matchStart int, replace string) string {
	prefix := bulletPrefix(combined)
	if prefix == "" || matchStart >= len(prefix) {
		return replace
	}
	if strings.HasPrefix(strings.TrimLeft(replace, " \t"), strings.TrimLeft(prefix, " \t")) {
		return replace
	}
	trimmed := strings.TrimLeft(replace, " \t")
	if trimmed != "" {
		if r, _ := utf8.DecodeRuneInString(trimmed); strings.ContainsRune(bulletGlyphs, r) {
			return replace
		}
	}
	return prefix + replace
}

func bulletPrefix(text string) string {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	rest := []rune(text[i:])
	if len(rest) == 0 || !strings.ContainsRune(bulletGlyphs, rest[0]) {
		return ""
	}
	j := i + len(string(rest[0]))
	for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
		j++
	}
	return text[:j]
}
