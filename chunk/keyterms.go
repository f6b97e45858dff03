package chunk

import (
	"regexp"
	"strings"
)

var (
	// Markdown table separator row: |---|---| or | --- | --- |.
	tableSeparatorPattern = regexp.MustCompile(`(?m)^\|[\s\-:]+\|[\s\-:|]+$`)

	// Identifier-like terms such as AFIO_MAPR, GPIOx_CRL, USART_BRR.
	registerPattern = regexp.MustCompile(`\b([A-Z]{2,}x?_[A-Z0-9_]+)\b`)

	offsetPattern = regexp.MustCompile(`Address offset:\s*(0x[0-9A-Fa-f]+)`)
	resetPattern  = regexp.MustCompile(`Reset value:\s*(0x[0-9A-Fa-f]+)`)

	// Bit-field declarations like "Bit 7 EVOE:" or "Bits 3:0 PIN[3:0]:".
	bitFieldPattern = regexp.MustCompile(`Bits?\s+\d+(?::\d+)?\s+([A-Z][A-Z0-9_\[\]]+):`)
)

const (
	maxRegisterTerms = 5
	maxFieldTerms    = 8

	// Four or more distinct identifiers without a definition table reads as
	// an index/overview passage; listing them individually would pollute
	// keyword-boost matching for every register they mention.
	overviewThreshold = 4
)

// HasMarkdownTable reports whether text contains a markdown table separator row.
func HasMarkdownTable(text string) bool {
	return tableSeparatorPattern.MatchString(text)
}

// ExtractKeyTerms scans chunk text for domain-significant tokens and returns
// an annotation to prefix onto the chunk: an optional REGISTER DEFINITION
// headline, then a bracketed "[KEY: term | term]" list, then a blank line.
// Returns the empty string when no heuristic fires. The result is
// deterministic for a given input. All pattern matching is total: malformed
// text yields no annotation, never an error.
func ExtractKeyTerms(text, header string) string {
	var terms []string
	registerTitle := ""

	hasTable := HasMarkdownTable(text)
	if hasTable {
		terms = append(terms, "TABLE:register_bitfields")
	}

	if registers := collectMatches(registerPattern, text, maxRegisterTerms); len(registers) > 0 {
		switch {
		case hasTable && strings.Contains(text, "Address offset:"):
			// A table plus an address offset marks a complete register
			// definition; the first identifier is the subject.
			registerTitle = "REGISTER DEFINITION: " + registers[0] + " - Complete bit field specification\n"
			terms = append(terms, registers...)
		case len(registers) >= overviewThreshold:
			terms = append(terms, "OVERVIEW:register_list")
		default:
			terms = append(terms, registers...)
		}
	}

	if m := offsetPattern.FindStringSubmatch(text); m != nil {
		terms = append(terms, "offset:"+m[1])
	}
	if m := resetPattern.FindStringSubmatch(text); m != nil {
		terms = append(terms, "reset:"+m[1])
	}

	if fields := collectMatches(bitFieldPattern, text, maxFieldTerms); len(fields) > 0 {
		terms = append(terms, "fields:"+strings.Join(fields, ","))
	}

	if len(terms) == 0 {
		return ""
	}
	return registerTitle + "[KEY: " + strings.Join(terms, " | ") + "]\n\n"
}

// collectMatches returns the first capture group of every match, deduplicated
// preserving first-seen order and capped at limit.
func collectMatches(pattern *regexp.Regexp, text string, limit int) []string {
	matches := pattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	unique := make([]string, 0, limit)
	for _, m := range matches {
		term := m[1]
		if seen[term] {
			continue
		}
		seen[term] = true
		unique = append(unique, term)
		if len(unique) == limit {
			break
		}
	}
	return unique
}
