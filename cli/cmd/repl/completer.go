package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ipl/lang"
)

// ctrlCommands are the commands of control mode.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// isIdentRune reports whether r may appear in an identifier.
func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the identifier under the cursor and its byte offsets
// in input. The word is empty when the cursor is not touching one.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))
	start, end = cursor, cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// receiver returns the identifier directly before the "." preceding the
// word at wordStart, or "" if the word is not an attribute.
func receiver(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	name, _, _ := wordBounds(prefix, len(prefix)-1)

	return name
}

// candidates returns the completions for a word: members of recv when it is
// set, otherwise every visible name and keyword.
func candidates(interp *lang.Interpreter, recv string) []string {
	if recv != "" {
		return interp.Members(recv)
	}

	return append(interp.Names(), lang.Keywords()...)
}

// computeMatches ranks the completions of the word at the cursor. An empty
// word lists every member after a "." and nothing otherwise.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()
	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var list []string

	if m.mode == modeCtrl {
		if word == "" {
			return nil, wordStart, wordEnd
		}

		list = ctrlCommands
	} else {
		recv := receiver(input, wordStart)
		list = candidates(m.session.interp, recv)

		if word == "" {
			if recv == "" {
				return nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(list))
			for k, c := range list {
				matches[k] = fuzzy.Match{Str: c, Index: k}
			}

			return matches, wordStart, wordEnd
		}
	}

	return fuzzy.Find(word, list), wordStart, wordEnd
}

// renderCandidateBar renders matches on one line no wider than width,
// eliding what does not fit.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	var (
		b        strings.Builder
		used     int
		ellipsis = hintStyle.Render("...")
	)

	for k, match := range matches {
		cand := renderCandidate(match, tabActive && k == selected)

		w := lipgloss.Width(cand)
		if k > 0 {
			w += len(sep)
		}

		if k > 0 && used+w+lipgloss.Width(ellipsis) > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if k > 0 {
			b.WriteString(sep)
		}

		b.WriteString(cand)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched runes
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, mark := suggestionStyle, matchStyle
	if selected {
		base, mark = selectedStyle, selectedMatchStyle
	}

	hit := make(map[int]bool, len(match.MatchedIndexes))
	for _, k := range match.MatchedIndexes {
		hit[k] = true
	}

	var b strings.Builder

	for k, r := range match.Str {
		if hit[k] {
			b.WriteString(mark.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
