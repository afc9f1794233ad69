// Package classify decides whether a free-text question should go to the
// local component search or to the chat model.
package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Intent is the routing decision for a question.
type Intent string

const (
	Search Intent = "search"
	Chat   Intent = "chat"
)

// shortQuery is the rune count below which an undecided question is
// treated as a search.
const shortQuery = 20

var searchKeywords = []string{
	"найди", "найти", "поиск", "ищу", "покажи", "список",
	"характеристик", "вах", "параметры", "подбери",
	"find", "search", "show", "list", "characteristics", "datasheet",
}

var chatKeywords = []string{
	"объясни", "расскажи", "почему", "как работает", "что такое",
	"зачем", "сравни", "помоги",
	"explain", "why", "how does", "what is", "tell me", "compare",
}

// Go's \b only knows ASCII word characters, so identifier boundaries are
// spelled out for Cyrillic input.
const (
	leftEdge  = `(?:^|[^\p{L}\p{N}])`
	rightEdge = `(?:$|[^\p{L}\p{N}])`
)

var componentPatterns = []*regexp.Regexp{
	// 1N4148, 2N3904
	regexp.MustCompile(leftEdge + `\dn\d{3,4}` + rightEdge),
	// КТ315, КП303, ГТ308, Д226 and their Latin transliterations
	regexp.MustCompile(leftEdge + `(?:кт|kt|кп|kp|гт|gt|мп|mp|кд|kd|д)\d{2,4}[а-яa-z]?` + rightEdge),
	// IRF540, BC547, TIP31, 2SC945
	regexp.MustCompile(leftEdge + `(?:irf|bc|bd|bf|bu|tip|mje|mj|2sa|2sb|2sc|2sd|bs|ao|si)\d{2,5}[a-z]?` + rightEdge),
	// 6П14П, 6Н2П
	regexp.MustCompile(leftEdge + `\d{1,2}[пжсэн]\d{1,2}[пжсэнб]?` + rightEdge),
	// ECC83, EL34
	regexp.MustCompile(leftEdge + `(?:ecc|el|ef|ecl)\d{2,3}` + rightEdge),
}

// Classify routes text to Search or Chat. Keywords decide first; when both
// or neither keyword set matches, short questions and questions naming a
// component identifier go to Search.
func Classify(text string) Intent {
	lower := strings.ToLower(text)

	hasSearch := containsAny(lower, searchKeywords)
	hasChat := containsAny(lower, chatKeywords)

	switch {
	case hasSearch && !hasChat:
		return Search
	case hasChat && !hasSearch:
		return Chat
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) < shortQuery {
		return Search
	}
	if HasComponentID(lower) {
		return Search
	}
	return Chat
}

// HasComponentID reports whether text mentions something that looks like a
// component part number.
func HasComponentID(text string) bool {
	lower := strings.ToLower(text)
	for _, re := range componentPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
