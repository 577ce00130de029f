package main

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"rxintel/domain/analysis"
)

// textractMissing is the text an image yields when no OCR engine is configured.
const textractMissing = "AWS Textract not configured"

var (
	medications = []string{
		"acetaminophen", "amlodipine", "amoxicillin", "atorvastatin", "azithromycin",
		"cetirizine", "ciprofloxacin", "clopidogrel", "doxycycline", "ibuprofen",
		"insulin", "levothyroxine", "lisinopril", "losartan", "metformin",
		"metoprolol", "omeprazole", "pantoprazole", "paracetamol", "prednisone",
		"salbutamol", "sertraline", "simvastatin", "warfarin",
	}
	frequencies = []string{
		"once daily", "twice daily", "thrice daily", "three times daily", "four times daily",
		"every 4 hours", "every 6 hours", "every 8 hours", "every 12 hours",
		"at bedtime", "as needed", "bd", "bid", "tid", "qid", "prn",
	}
	routes = []string{
		"oral", "orally", "iv", "im", "subcutaneous", "topical", "inhalation",
		"rectal", "transdermal", "po", "sc",
	}

	dosePattern = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:mg|ml|mcg|g|units?|tablets?|capsules?|puffs?)\b`)
)

// extractor finds entities by keyword and pattern matching. Output order follows
// first appearance in the text, so the same text always yields the same result.
type extractor struct {
	medications *regexp.Regexp
	frequencies *regexp.Regexp
	routes      *regexp.Regexp
}

func newExtractor() *extractor {
	return &extractor{
		medications: wordsPattern(medications),
		frequencies: wordsPattern(frequencies),
		routes:      wordsPattern(routes),
	}
}

func wordsPattern(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	// Longest first so "three times daily" wins over shorter overlaps.
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Extract analyses text. Medication names are title-cased, routes and frequencies
// lower-cased, and doses keep their case with whitespace collapsed.
func (e *extractor) Extract(text string) analysis.Result {
	text = strings.TrimSpace(text)
	return analysis.Result{
		Medications: uniqueMatches(e.medications, text, titleCase),
		Doses:       uniqueMatches(dosePattern, text, normalizeSpace),
		Routes:      uniqueMatches(e.routes, text, strings.ToLower),
		Frequencies: uniqueMatches(e.frequencies, text, strings.ToLower),
		RawText:     text,
	}
}

func uniqueMatches(re *regexp.Regexp, text string, norm func(string) string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, m := range re.FindAllString(text, -1) {
		m = norm(m)
		key := strings.ToLower(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

func titleCase(s string) string {
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// imageText stands in for OCR. Uploads that are plain UTF-8 text are read as the
// prescription itself; anything else yields the "not configured" notice.
func imageText(content []byte) string {
	if len(content) == 0 || !utf8.Valid(content) {
		return textractMissing
	}
	for _, r := range string(content) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return textractMissing
		}
	}
	return string(content)
}
