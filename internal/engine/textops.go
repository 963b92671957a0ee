// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"fmt"

	"github.com/pdiddy/pdfops/pkg/types"
)

// byteRule is a replacement compiled to the byte encoding used inside
// literal content-stream strings.
type byteRule struct {
	old []byte
	new []byte
}

// compileRules encodes rule text for byte-level matching. Rules whose text
// cannot be expressed as single-byte string characters are returned in
// skipped; matching them would require per-font CID mapping.
func compileRules(rs []types.Rule) (compiled []byteRule, skipped []string) {
	for _, r := range rs {
		old, ok := encodeStringBytes(r.Old)
		if !ok {
			skipped = append(skipped, r.Old)
			continue
		}
		repl, ok := encodeStringBytes(r.New)
		if !ok {
			skipped = append(skipped, r.Old)
			continue
		}
		compiled = append(compiled, byteRule{old: old, new: repl})
	}
	return compiled, skipped
}

// encodeStringBytes maps s onto single-byte string characters. Code points
// above U+00FF have no byte representation in simple-font strings.
func encodeStringBytes(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, false
		}
		out = append(out, byte(r))
	}
	return out, true
}

// stringSpan is a literal string token inside a content stream,
// bounded by its parentheses.
type stringSpan struct {
	start, end int
}

// rewriteResult reports what rewriteContent did to one stream.
type rewriteResult struct {
	out      []byte
	matches  int
	changed  bool
	hexShown bool // a text operator consumed hex string operands we left alone
}

// rewriteContent applies rules to the string operands of the text-showing
// operators (Tj, ', ", TJ) in a decoded content stream. All other stream
// content, including strings used as operands of non-text operators and
// anything inside dictionaries or inline images, passes through untouched.
func rewriteContent(buf []byte, rules []byteRule) rewriteResult {
	var (
		pending    []stringSpan
		marked     []stringSpan
		pendingHex bool
		res        rewriteResult
	)

	i := 0
	for i < len(buf) {
		c := buf[i]
		switch {
		case c == '%':
			i = skipComment(buf, i)
		case c == '(':
			j := scanLiteral(buf, i)
			pending = append(pending, stringSpan{i, j})
			i = j
		case c == '<':
			if i+1 < len(buf) && buf[i+1] == '<' {
				i = scanDict(buf, i)
			} else {
				i = scanHex(buf, i)
				pendingHex = true
			}
		case c == '[' || c == ']' || c == '{' || c == '}' || c == ')' || c == '>':
			i++
		case c == '/':
			i = scanName(buf, i)
		case isWhitespace(c):
			i++
		default:
			j := scanToken(buf, i)
			tok := buf[i:j]
			switch {
			case bytes.Equal(tok, []byte("Tj")), bytes.Equal(tok, []byte("'")),
				bytes.Equal(tok, []byte("\"")), bytes.Equal(tok, []byte("TJ")):
				marked = append(marked, pending...)
				pending = pending[:0]
				if pendingHex {
					res.hexShown = true
				}
				pendingHex = false
			case bytes.Equal(tok, []byte("BI")):
				j = skipInlineImage(buf, j)
				pending = pending[:0]
				pendingHex = false
			case isOperator(tok):
				pending = pending[:0]
				pendingHex = false
			}
			i = j
		}
	}

	if len(marked) == 0 {
		res.out = buf
		return res
	}

	var out bytes.Buffer
	prev := 0
	for _, sp := range marked {
		dec := decodeLiteral(buf[sp.start:sp.end])
		rep, n := applyRules(dec, rules)
		if n == 0 {
			continue
		}
		out.Write(buf[prev:sp.start])
		out.Write(encodeLiteral(rep))
		prev = sp.end
		res.matches += n
	}
	if res.matches == 0 {
		res.out = buf
		return res
	}
	out.Write(buf[prev:])
	res.out = out.Bytes()
	res.changed = true
	return res
}

// applyRules runs the rules in order against decoded string bytes.
func applyRules(dec []byte, rules []byteRule) ([]byte, int) {
	total := 0
	for _, r := range rules {
		n := bytes.Count(dec, r.old)
		if n == 0 {
			continue
		}
		dec = bytes.ReplaceAll(dec, r.old, r.new)
		total += n
	}
	return dec, total
}

func isWhitespace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// isOperator distinguishes operator tokens from numeric operands.
// Operators begin with a letter, quote, or asterisk (T*); numbers begin
// with a digit, sign, or period.
func isOperator(tok []byte) bool {
	if len(tok) == 0 {
		return false
	}
	c := tok[0]
	return !(c >= '0' && c <= '9') && c != '+' && c != '-' && c != '.'
}

func skipComment(buf []byte, i int) int {
	for i < len(buf) && buf[i] != '\n' && buf[i] != '\r' {
		i++
	}
	return i
}

// scanLiteral consumes a literal string starting at '(' and returns the
// index just past the closing parenthesis. Parentheses nest; a backslash
// escapes the next byte.
func scanLiteral(buf []byte, i int) int {
	depth := 0
	for i < len(buf) {
		switch buf[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return len(buf)
}

// scanHex consumes a hex string starting at '<'.
func scanHex(buf []byte, i int) int {
	for i < len(buf) && buf[i] != '>' {
		i++
	}
	if i < len(buf) {
		i++
	}
	return i
}

// scanDict consumes a dictionary starting at '<<', including nested
// dictionaries and any strings inside them.
func scanDict(buf []byte, i int) int {
	depth := 0
	for i < len(buf) {
		switch {
		case buf[i] == '<' && i+1 < len(buf) && buf[i+1] == '<':
			depth++
			i += 2
		case buf[i] == '>' && i+1 < len(buf) && buf[i+1] == '>':
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		case buf[i] == '(':
			i = scanLiteral(buf, i)
		default:
			i++
		}
	}
	return len(buf)
}

func scanName(buf []byte, i int) int {
	i++
	for i < len(buf) && !isWhitespace(buf[i]) && !isDelimiter(buf[i]) {
		i++
	}
	return i
}

func scanToken(buf []byte, i int) int {
	for i < len(buf) && !isWhitespace(buf[i]) && !isDelimiter(buf[i]) {
		i++
	}
	return i
}

// skipInlineImage consumes an inline image body. i points just past the
// BI token; the scan runs through the ID..EI binary section and returns
// the index past EI.
func skipInlineImage(buf []byte, i int) int {
	// Find the ID operator that opens the binary section.
	for i < len(buf)-1 {
		if buf[i] == 'I' && buf[i+1] == 'D' &&
			(i+2 >= len(buf) || isWhitespace(buf[i+2])) {
			i += 3
			break
		}
		i++
	}
	// Binary data runs until whitespace-EI-boundary.
	for i < len(buf)-1 {
		if buf[i] == 'E' && buf[i+1] == 'I' &&
			isWhitespace(buf[i-1]) &&
			(i+2 >= len(buf) || isWhitespace(buf[i+2]) || isDelimiter(buf[i+2])) {
			return i + 2
		}
		i++
	}
	return len(buf)
}

// decodeLiteral converts a literal string token, parentheses included,
// into its raw bytes, resolving the escape sequences of the string syntax.
func decodeLiteral(tok []byte) []byte {
	body := tok[1 : len(tok)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		i++
		if i >= len(body) {
			break
		}
		switch e := body[i]; e {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case '\n':
			// Line continuation: drop.
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := int(e - '0')
			for k := 0; k < 2 && i+1 < len(body) && body[i+1] >= '0' && body[i+1] <= '7'; k++ {
				i++
				v = v*8 + int(body[i]-'0')
			}
			out = append(out, byte(v))
		default:
			out = append(out, e)
		}
	}
	return out
}

// encodeLiteral renders raw bytes as a literal string token. Parentheses
// and backslashes are escaped; bytes outside the printable ASCII range
// use octal escapes so the stream stays 7-bit clean.
func encodeLiteral(data []byte) []byte {
	var out bytes.Buffer
	out.WriteByte('(')
	for _, c := range data {
		switch {
		case c == '(' || c == ')' || c == '\\':
			out.WriteByte('\\')
			out.WriteByte(c)
		case c == '\n':
			out.WriteString(`\n`)
		case c == '\r':
			out.WriteString(`\r`)
		case c == '\t':
			out.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&out, `\%03o`, c)
		default:
			out.WriteByte(c)
		}
	}
	out.WriteByte(')')
	return out.Bytes()
}
