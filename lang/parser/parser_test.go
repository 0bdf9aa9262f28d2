package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheese-S/Dojo/lang/ast"
	"github.com/Cheese-S/Dojo/lang/parser"
)

func TestParseVarDeclAndBinaryExpr(t *testing.T) {
	prog, err := parser.Parse("<test>", "var x = 1 + 2\n")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	decl, ok := prog.Stmts[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)

	bin, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	_, ok = bin.Left.(*ast.NumberExpr)
	assert.True(t, ok)
}

func TestParseIfElseStatement(t *testing.T) {
	prog, err := parser.Parse("<test>", "if (true) { print(1) } else { print(2) }\n")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	ifStmt, ok := prog.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.NotNil(t, ifStmt.Then)
	assert.NotNil(t, ifStmt.Else)
}

func TestParseFnDeclWithParams(t *testing.T) {
	prog, err := parser.Parse("<test>", "fn add(a, b) { return a + b }\n")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	fn, ok := prog.Stmts[0].(*ast.FnDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)
}

func TestParseClassDeclWithInheritance(t *testing.T) {
	prog, err := parser.Parse("<test>", "class B extends A {\n method() { return 1 }\n}\n")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	cls, ok := prog.Stmts[0].(*ast.ClassDecl)
	require.True(t, ok)
	assert.Equal(t, "B", cls.Name)
	require.NotNil(t, cls.Super)
	assert.Len(t, cls.Methods, 1)
}

func TestParseSyntaxErrorIsAggregated(t *testing.T) {
	_, err := parser.Parse("<test>", "var = 1\n")
	require.Error(t, err)
}

func TestParseTemplateStringExpression(t *testing.T) {
	prog, err := parser.Parse("<test>", "var s = `a${1}b`\n")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	decl := prog.Stmts[0].(*ast.VarDecl)
	tmpl, ok := decl.Init.(*ast.TemplateExpr)
	require.True(t, ok)
	assert.NotEmpty(t, tmpl.Spans)
}
