// Package postprocess strips common LLM artifacts from generated text
// before it enters validation or storage: leaked reasoning blocks, echoed
// instructions, and decorative outer quotes.
package postprocess

import (
	"regexp"
	"strings"
)

// Each reasoning tag pair is listed explicitly; RE2 has no backreferences.
var reasoningRe = regexp.MustCompile(
	`(?is)<think(?:ing)?>.*?</think(?:ing)?>|<reasoning>.*?</reasoning>`,
)

// An opened reasoning tag with no close means the model was cut off; drop
// everything from the tag onward.
var truncatedReasoningRe = regexp.MustCompile(`(?is)<think(?:ing)?>.*$|<reasoning>.*$`)

// Lead-ins the model sometimes prepends despite being told to start with the
// first translated word. Anchored and colon-terminated to avoid eating
// legitimate prose.
var leadInRe = regexp.MustCompile(
	`(?i)^(?:(?:certainly|sure|of course)[,.]?\s*)?(?:here(?:'s| is)(?: the)? )?(?:polished |refined |final )?translation\s*:\s*`,
)

// Clean returns text with reasoning blocks, lead-in echoes, and wrapping
// quotes removed.
func Clean(text string) string {
	text = reasoningRe.ReplaceAllString(text, "")
	text = truncatedReasoningRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(leadInRe.ReplaceAllString(text, ""))
	return unwrapQuotes(text)
}

// unwrapQuotes strips one matching pair of outer quotes when the whole text
// is wrapped in them.
func unwrapQuotes(text string) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	pairs := map[rune]rune{
		'"':      '"',
		'\'':     '\'',
		'«':      '»',
		'“': '”',
		'‘': '’',
		'「':      '」',
	}
	if closer, ok := pairs[runes[0]]; ok && runes[len(runes)-1] == closer {
		return strings.TrimSpace(string(runes[1 : len(runes)-1]))
	}
	return text
}
