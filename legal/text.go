package legal

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casers keep state between calls, so each helper builds its own.

func turkishLower(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

func turkishUpper(s string) string {
	return cases.Upper(language.Turkish).String(s)
}

func turkishTitle(s string) string {
	return cases.Title(language.Turkish).String(turkishLower(s))
}

// foldCode maps an abbreviation to its lookup key: Turkish upper case with
// dotted and dotless capital I treated as the same letter.
func foldCode(code string) string {
	return strings.ReplaceAll(turkishUpper(strings.TrimSpace(code)), "İ", "I")
}

// collapseSpaces trims s and replaces every whitespace run with one space.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func normalizeKey(s string) string {
	return turkishLower(collapseSpaces(s))
}

// truncateRunes cuts s to max runes and appends an ellipsis when shortened.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

// headRunes returns at most n leading runes of s.
func headRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// window returns the text from radius runes before start to radius runes
// after end. start and end are byte offsets on rune boundaries.
func window(text string, start, end, radius int) string {
	return text[backRunes(text, start, radius):forwardRunes(text, end, radius)]
}

// before returns up to n runes of text ending at byte offset pos.
func before(text string, pos, n int) string {
	return text[backRunes(text, pos, n):pos]
}

// after returns up to n runes of text starting at byte offset pos.
func after(text string, pos, n int) string {
	return text[pos:forwardRunes(text, pos, n)]
}

func backRunes(text string, pos, n int) int {
	for i := 0; i < n && pos > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:pos])
		pos -= size
	}
	return pos
}

func forwardRunes(text string, pos, n int) int {
	for i := 0; i < n && pos < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	return pos
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBoundaryBefore reports whether the rune ending at pos is not part of a word.
func wordBoundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

// wordBoundaryAfter reports whether the rune starting at pos is not part of a word.
func wordBoundaryAfter(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isWordRune(r)
}

func digitBefore(text string, pos int) bool {
	return pos > 0 && text[pos-1] >= '0' && text[pos-1] <= '9'
}

func digitAt(text string, pos int) bool {
	return pos < len(text) && text[pos] >= '0' && text[pos] <= '9'
}
