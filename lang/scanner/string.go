package scanner

import (
	"strings"

	"github.com/Cheese-S/Dojo/lang/token"
)

// shortString scans `"..."` (spec.md §6.3: no embedded newlines).
func (s *Scanner) shortString(line token.Pos) Tok {
	var sb strings.Builder
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.errorf(line, "unterminated string literal")
			break
		}
		sb.WriteString(s.stringChar('"'))
	}
	if s.atEnd() {
		s.errorf(line, "unterminated string literal")
	} else {
		s.advance() // closing quote
	}
	return Tok{Kind: token.STRING, Line: line, Lexeme: sb.String()}
}

// stringChar consumes and decodes one source character of a string or
// template literal body, applying backslash escapes. terminator is the
// byte that must NOT be treated as a literal char by the caller (the
// caller's loop condition already excludes it; this only handles escapes).
func (s *Scanner) stringChar(terminator byte) string {
	c := s.advance()
	if c != '\\' || s.atEnd() {
		return string(c)
	}
	e := s.advance()
	switch e {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '0':
		return "\x00"
	case '\\':
		return "\\"
	case '"':
		return "\""
	case '`':
		return "`"
	case '$':
		return "$"
	default:
		return string(e)
	}
}

// beginTemplate scans the head fragment of a template string, from just
// after the opening backtick up to either `${` (more to come) or the
// closing backtick (a template with no interpolations at all). It bumps
// the nesting-depth counter, bounded at maxTemplateDepth (spec.md §6.3,
// SPEC_FULL.md §E.2); the counter is decremented by whichever of
// beginTemplate/ContinueTemplate scans the terminal fragment.
func (s *Scanner) beginTemplate(line token.Pos) Tok {
	s.tmplDepth++
	if s.tmplDepth > maxTemplateDepth {
		s.errorf(line, "template string nesting depth exceeded (max %d)", maxTemplateDepth)
	}
	return s.templateFragment(line, token.TEMPLATE_HEAD)
}

// ContinueTemplate scans the next template fragment, called by the parser
// immediately after it has parsed an interpolated expression and consumed
// its closing `}` as an ordinary RBRACE token. It returns a TEMPLATE_SPAN
// if another `${` follows, or a TEMPLATE_TAIL if the template's closing
// backtick follows.
func (s *Scanner) ContinueTemplate(line token.Pos) Tok {
	return s.templateFragment(line, token.TEMPLATE_SPAN)
}

func (s *Scanner) templateFragment(line token.Pos, midKind token.Token) Tok {
	var sb strings.Builder
	for {
		if s.atEnd() {
			s.errorf(line, "unterminated template string")
			s.tmplDepth--
			return Tok{Kind: token.TEMPLATE_TAIL, Line: line, Lexeme: sb.String()}
		}
		if s.peek() == '`' {
			s.advance()
			s.tmplDepth--
			return Tok{Kind: token.TEMPLATE_TAIL, Line: line, Lexeme: sb.String()}
		}
		if s.peek() == '$' && s.peekAt(1) == '{' {
			s.advance()
			s.advance()
			return Tok{Kind: midKind, Line: line, Lexeme: sb.String()}
		}
		sb.WriteString(s.stringChar('`'))
	}
}
