package compiler

import (
	"github.com/Cheese-S/Dojo/lang/ast"
	"github.com/Cheese-S/Dojo/lang/chunk"
	"github.com/Cheese-S/Dojo/lang/value"
)

// compileTemplate pushes the head literal, then each span's expression
// followed by its trailing literal, then a single TEMPLATE instruction
// whose operand is the span count (spec.md §4.F.6). At runtime TEMPLATE n
// pops the resulting 2n+1 values and concatenates them left to right.
func (c *compiler) compileTemplate(e *ast.TemplateExpr) {
	head := c.h.InternString(e.Head, false)
	c.emitConstant(value.FromObj(head), e.Pos())
	for _, span := range e.Spans {
		c.compileExpr(span.X)
		lit := c.h.InternString(span.Literal, false)
		c.emitConstant(value.FromObj(lit), e.Pos())
	}
	if len(e.Spans) > 0xff {
		c.errorAt(e.Pos(), "too many interpolations in one template string")
	}
	c.emitBytes(chunk.TEMPLATE, byte(len(e.Spans)), e.Pos())
}
