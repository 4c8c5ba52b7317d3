package compile

import (
	"fmt"
	"regexp"
	"strings"
)

// Transformer turns a module's source text into executable module text.
// Implementations must be pure: same input, same output, no side effects.
// PRINCIPLES:
// - DIP: The compiler depends on this interface, not on one transpiler
// - ISP: Single method
type Transformer interface {
	Transform(filename, source string) (string, error)
}

// scriptTransformer is the default source-to-executable transform. It
// performs a structural sanity pass (unbalanced delimiters fail the module)
// and normalizes relative import specifiers to the bare spellings the
// resolution table registers, so module text resolves identically regardless
// of which reference convention the author used.
type scriptTransformer struct{}

// NewTransformer returns the default script transformer.
func NewTransformer() Transformer {
	return scriptTransformer{}
}

func (scriptTransformer) Transform(filename, source string) (string, error) {
	if err := checkBalanced(filename, source); err != nil {
		return "", err
	}
	return normalizeSpecifiers(source), nil
}

// checkBalanced rejects modules whose brackets or template literals do not
// close. This is not a parser; it is the cheap structural check that catches
// the truncated-paste class of breakage before the document ships.
func checkBalanced(filename, source string) error {
	var stack []byte
	inString := byte(0)
	escaped := false
	// Last significant byte seen outside strings and comments; decides
	// whether a "/" opens a regex literal or is division.
	lastSig := byte(0)
	for i := 0; i < len(source); i++ {
		ch := source[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if inString != 0 {
			if ch == inString {
				inString = 0
				lastSig = ch
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			inString = ch
		case '/':
			// Skip comments so braces inside them do not count.
			if i+1 < len(source) && source[i+1] == '/' {
				for i < len(source) && source[i] != '\n' {
					i++
				}
			} else if i+1 < len(source) && source[i+1] == '*' {
				end := strings.Index(source[i+2:], "*/")
				if end < 0 {
					i = len(source)
				} else {
					i += 2 + end + 1
				}
			} else if regexCanFollow(source, i, lastSig) {
				i = skipRegexLiteral(source, i)
				lastSig = '/'
			} else {
				lastSig = '/'
			}
		case '(', '[', '{':
			stack = append(stack, ch)
			lastSig = ch
		case ')', ']', '}':
			want := map[byte]byte{')': '(', ']': '[', '}': '{'}[ch]
			if len(stack) == 0 || stack[len(stack)-1] != want {
				return fmt.Errorf("%s: unbalanced %q at offset %d", filename, string(ch), i)
			}
			stack = stack[:len(stack)-1]
			lastSig = ch
		default:
			if ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' {
				lastSig = ch
			}
		}
	}
	if inString != 0 {
		return fmt.Errorf("%s: unterminated %q literal", filename, string(inString))
	}
	if len(stack) > 0 {
		return fmt.Errorf("%s: unclosed %q", filename, string(stack[len(stack)-1]))
	}
	return nil
}

// regexCanFollow reports whether a "/" at source[i] opens a regex literal
// rather than division: only where no expression just ended. When the last
// significant byte belongs to an identifier the decision falls to the word it
// ends, since keywords like "return" and "typeof" admit a regex while a plain
// name or number means division.
func regexCanFollow(source string, i int, last byte) bool {
	if isIdentByte(last) {
		switch precedingWord(source, i) {
		case "return", "case", "typeof", "instanceof", "in", "of", "new",
			"delete", "void", "do", "else", "yield", "await", "throw":
			return true
		}
		return false
	}
	switch last {
	case 0, '(', '[', '{', ',', ';', '=', ':', '!', '&', '|', '?', '+', '-', '*', '%', '<', '>', '~', '^':
		return true
	}
	return false
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch == '$' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// precedingWord returns the identifier ending just before source[i], skipping
// trailing whitespace.
func precedingWord(source string, i int) string {
	end := i
	for end > 0 && (source[end-1] == ' ' || source[end-1] == '\t' || source[end-1] == '\r' || source[end-1] == '\n') {
		end--
	}
	start := end
	for start > 0 && isIdentByte(source[start-1]) {
		start--
	}
	return source[start:end]
}

// skipRegexLiteral advances past a regex literal starting at source[start]
// ("/"), returning the index of its closing "/". Brackets inside the literal,
// including character classes like [({], never reach the balance check. An
// unterminated literal ends at the line break and is left to the balance
// check to judge.
func skipRegexLiteral(source string, start int) int {
	inClass := false
	for i := start + 1; i < len(source); i++ {
		switch source[i] {
		case '\\':
			i++
		case '\n':
			return i - 1
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				return i
			}
		}
	}
	return len(source) - 1
}

// moduleSpecifierRe matches the opening quote of a module specifier: the
// string after "from", or the string a side-effect import starts with. Only
// the specifier position qualifies; other string literals on an
// import/export line are plain data and must survive untouched.
var moduleSpecifierRe = regexp.MustCompile(`((?:\bfrom|^\s*import)\s*)(["'])(?:\./|/)`)

// normalizeSpecifiers rewrites "./x" and "/x" import specifiers to bare "x".
// The resolution table registers every spelling, but data-URL modules cannot
// resolve relative specifiers, so executable text always uses the bare form.
func normalizeSpecifiers(source string) string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "import") && !strings.HasPrefix(trimmed, "export") {
			continue
		}
		lines[i] = moduleSpecifierRe.ReplaceAllString(line, "$1$2")
	}
	return strings.Join(lines, "\n")
}
