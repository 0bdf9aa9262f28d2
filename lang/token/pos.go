package token

// Pos is a 1-based source line number. Dojo's scanner, unlike the
// teacher's, only needs line-granularity positions: every error message
// and every Chunk line-table entry is "which line", never "which column"
// (the original Cheese-S/Dojo C scanner tracks only `line` for the same
// reason).
type Pos int

// NoPos means "no position is available".
const NoPos Pos = 0

// IsValid reports whether p represents a real source line.
func (p Pos) IsValid() bool { return p > 0 }
