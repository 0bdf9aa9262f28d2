package scanner

import (
	"strconv"

	"github.com/Cheese-S/Dojo/lang/token"
)

// number scans `[0-9]+(\.[0-9]+)?` (spec.md §6.3: all numbers are IEEE-754
// doubles, no integer type, no exponent/hex syntax).
func (s *Scanner) number(line token.Pos, start int) Tok {
	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance() // consume '.'
		for !s.atEnd() && isDigit(s.peek()) {
			s.advance()
		}
	}
	lit := s.src[start:s.pos]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		s.errorf(line, "invalid number literal %q", lit)
	}
	return Tok{Kind: token.NUMBER, Line: line, Lexeme: lit, Number: v}
}
