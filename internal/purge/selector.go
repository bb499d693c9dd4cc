package purge

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/yacobolo/atomcss/internal/extract"
	"github.com/yacobolo/atomcss/internal/rules"
)

// ClassComponents returns the unescaped class names of a selector, in order.
// Pseudo-classes, attribute selectors and combinators are not part of any
// component. At-rule wrappers such as "@media (...) { .sm_p-4 }" yield the
// classes of the wrapped selector.
func ClassComponents(selector string) []string {
	var out []string
	lexer := css.NewLexer(parse.NewInputString(selector))
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			return out
		}
		if tt != css.DelimToken || len(text) == 0 || text[0] != '.' {
			continue
		}
		tt, text = lexer.Next()
		if tt == css.ErrorToken {
			return out
		}
		if tt == css.IdentToken || tt == css.CustomPropertyNameToken {
			out = append(out, Unescape(string(text)))
		}
	}
}

// IsUsed reports whether any class component of selector is a used token.
// Selectors without class components are never used.
func IsUsed(selector string, used extract.Set) bool {
	for _, c := range ClassComponents(selector) {
		if used.Has(c) {
			return true
		}
	}
	return false
}

// Filter returns the rules of bag whose selector is used, in bag order.
func Filter(bag *rules.Bag, used extract.Set) *rules.Bag {
	return bag.Filter(func(selector string) bool {
		return IsUsed(selector, used)
	})
}

// Unescape resolves CSS backslash escapes in an identifier: "p-0\.5" becomes
// "p-0.5" and "\31 0" becomes "10".
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		j := i + 1
		for j < len(s) && j-i <= 6 && isHex(s[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte(s[j])
			i = j
			continue
		}
		r, err := strconv.ParseUint(s[i+1:j], 16, 32)
		if err != nil || r == 0 || r > 0x10FFFF {
			r = 0xFFFD
		}
		b.WriteRune(rune(r))
		if j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n') {
			j++
		}
		i = j - 1
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
