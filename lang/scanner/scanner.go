// Package scanner implements the hand-written lexical scanner that turns
// Dojo source text into a token stream for lang/parser (spec.md §1, §6.3).
//
// Template strings are the one lexical feature that cannot be scanned by a
// context-free token-at-a-time loop: the literal text between `${` and the
// matching `}` is Dojo source code, not string content, so the scanner
// cannot decide on its own where a template literal's next fragment begins.
// Instead of threading a brace-nesting stack through Next (the classic but
// fiddly approach), this scanner exposes the fragment-scanning step as an
// explicit method, ContinueTemplate, that the parser calls once it has
// parsed the interpolated expression and consumed the closing `}` as an
// ordinary RBRACE token. Because Dojo expressions never contain a bare,
// unbalanced `{` (no block expressions, no object literals), every `}` a
// normal Next call sees while scanning an interpolated expression really is
// a plain RBRACE, and the text immediately following it really is the next
// template fragment — so the cooperative handoff is unambiguous and the
// scanner needs no brace stack at all.
package scanner

import (
	"fmt"
	goscanner "go/scanner"
	gotoken "go/token"

	"github.com/Cheese-S/Dojo/lang/token"
)

type (
	// Error is one scanner diagnostic, re-exported from the standard
	// library's go/scanner so lang/parser and lang/compiler can aggregate
	// scanner, parser and compiler errors in a single ErrorList.
	Error = goscanner.Error
	// ErrorList aggregates Errors with sorting and deduplicated printing.
	ErrorList = goscanner.ErrorList
)

// PrintError writes err (an error or an ErrorList) to w in `file:line:
// message` form, one line per error.
var PrintError = goscanner.PrintError

// maxTemplateDepth bounds how many template strings may be nested inside
// one another's interpolations (spec.md §6.3, SPEC_FULL.md §E.2).
const maxTemplateDepth = 2

// Tok is one scanned token: its kind, the line it starts on, and its
// decoded literal payload (identifier/keyword text, string/template
// fragment content, or numeric value).
type Tok struct {
	Kind   token.Token
	Line   token.Pos
	Lexeme string  // IDENT name; STRING/TEMPLATE_* fragment content (escapes decoded)
	Number float64 // valid when Kind == token.NUMBER

	// NewlineBefore reports whether at least one newline was skipped
	// between the previous token and this one (spec.md §6.3: "Statements
	// are terminated by newlines (the scanner is line-aware)"). The
	// statement-level parser productions treat this as an implicit
	// terminator wherever an explicit ';' would otherwise be required.
	NewlineBefore bool
}

// Scanner tokenizes a single source buffer.
type Scanner struct {
	filename string
	src      string
	pos      int // byte offset of the next unread byte
	line     token.Pos

	tmplDepth int // number of currently-open (unterminated) template strings

	errFn func(pos gotoken.Position, msg string)
}

// New returns a Scanner over src. filename is used only to label errors.
// errFn receives every scan error as it is discovered; callers typically
// pass an ErrorList's Add method.
func New(filename, src string, errFn func(gotoken.Position, string)) *Scanner {
	return &Scanner{filename: filename, src: src, line: 1, errFn: errFn}
}

func (s *Scanner) errorf(line token.Pos, format string, args ...any) {
	if s.errFn != nil {
		s.errFn(gotoken.Position{Filename: s.filename, Line: int(line)}, fmt.Sprintf(format, args...))
	}
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.src) }

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) peekAt(off int) byte {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *Scanner) advance() byte {
	b := s.src[s.pos]
	s.pos++
	if b == '\n' {
		s.line++
	}
	return b
}

func (s *Scanner) match(want byte) bool {
	if s.atEnd() || s.src[s.pos] != want {
		return false
	}
	s.pos++
	return true
}

// skipWhitespaceAndComments consumes whitespace and comments up to the
// next real token, reporting whether a newline was crossed anywhere in
// that span (spec.md §6.3's line-aware termination rule) — inside a line
// comment, inside a block comment, or as bare whitespace all count.
func (s *Scanner) skipWhitespaceAndComments() bool {
	crossedNewline := false
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.advance()
			crossedNewline = true
		case '/':
			if s.peekAt(1) == '/' {
				for !s.atEnd() && s.peek() != '\n' {
					s.advance()
				}
			} else if s.peekAt(1) == '*' {
				startLine := s.line
				s.advance()
				s.advance()
				closed := false
				for !s.atEnd() {
					if s.peek() == '*' && s.peekAt(1) == '/' {
						s.advance()
						s.advance()
						closed = true
						break
					}
					if s.peek() == '\n' {
						crossedNewline = true
					}
					s.advance()
				}
				if !closed {
					s.errorf(startLine, "unterminated block comment")
				}
			} else {
				return crossedNewline
			}
		default:
			return crossedNewline
		}
	}
	return crossedNewline
}

// Next scans and returns the next token, or a token.EOF Tok once the
// source is exhausted. Callers must stop calling Next after receiving EOF.
//
// The named return plus deferred assignment lets every "return Tok{...}"
// below stay as a plain literal while still picking up NewlineBefore in
// one place, including through the unexpected-character recursion at the
// bottom (that recursive call ORs in whatever newline it crosses too).
func (s *Scanner) Next() (tok Tok) {
	crossedNewline := s.skipWhitespaceAndComments()
	defer func() { tok.NewlineBefore = tok.NewlineBefore || crossedNewline }()

	line := s.line
	if s.atEnd() {
		return Tok{Kind: token.EOF, Line: line}
	}

	c := s.advance()
	switch {
	case isDigit(c):
		return s.number(line, s.pos-1)
	case isAlpha(c):
		return s.identifier(line, s.pos-1)
	}

	switch c {
	case '(':
		return Tok{Kind: token.LPAREN, Line: line}
	case ')':
		return Tok{Kind: token.RPAREN, Line: line}
	case '{':
		return Tok{Kind: token.LBRACE, Line: line}
	case '}':
		return Tok{Kind: token.RBRACE, Line: line}
	case ',':
		return Tok{Kind: token.COMMA, Line: line}
	case '.':
		return Tok{Kind: token.DOT, Line: line}
	case ';':
		return Tok{Kind: token.SEMICOLON, Line: line}
	case '?':
		return Tok{Kind: token.QUESTION, Line: line}
	case ':':
		return Tok{Kind: token.COLON, Line: line}
	case '+':
		return Tok{Kind: token.PLUS, Line: line}
	case '-':
		return Tok{Kind: token.MINUS, Line: line}
	case '*':
		return Tok{Kind: token.STAR, Line: line}
	case '/':
		return Tok{Kind: token.SLASH, Line: line}
	case '!':
		if s.match('=') {
			return Tok{Kind: token.BANG_EQUAL, Line: line}
		}
		return Tok{Kind: token.BANG, Line: line}
	case '=':
		if s.match('=') {
			return Tok{Kind: token.EQUAL_EQUAL, Line: line}
		}
		return Tok{Kind: token.EQUAL, Line: line}
	case '<':
		if s.match('=') {
			return Tok{Kind: token.LESS_EQUAL, Line: line}
		}
		return Tok{Kind: token.LESS, Line: line}
	case '>':
		if s.match('=') {
			return Tok{Kind: token.GREATER_EQUAL, Line: line}
		}
		return Tok{Kind: token.GREATER, Line: line}
	case '"':
		return s.shortString(line)
	case '`':
		return s.beginTemplate(line)
	default:
		s.errorf(line, "unexpected character %q", c)
		return s.Next()
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

func (s *Scanner) identifier(line token.Pos, start int) Tok {
	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := s.src[start:s.pos]
	return Tok{Kind: token.Lookup(text), Line: line, Lexeme: text}
}
