package pysymtab

import (
	"testing"

	"github.com/kiteco/pyfront/internal/diag"
	"github.com/kiteco/pyfront/pyscanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lex(t *testing.T, src string) []pyscanner.Word {
	t.Helper()
	var log diag.Log
	return pyscanner.Tokenize([]byte(src), &log)
}

func TestInfer_IndentationBasics(t *testing.T) {
	src := "def f():\n    x = 1\n    return x\n"
	table := Infer(lex(t, src), new(diag.Log))

	require.True(t, table.Exists("f", "global"))
	assert.Equal(t, Function, table.GetType("f", "global"))

	require.True(t, table.Exists("x", "f"))
	assert.Equal(t, Int, table.GetType("x", "f"))
	assert.Equal(t, "1", table.GetValue("x", "f"))
}

func TestInfer_MultipleAssignment(t *testing.T) {
	table := Infer(lex(t, "a, b = 1, 2.5\n"), new(diag.Log))

	assert.Equal(t, Int, table.GetType("a", "global"))
	assert.Equal(t, "1", table.GetValue("a", "global"))
	assert.Equal(t, Float, table.GetType("b", "global"))
	assert.Equal(t, "2.5", table.GetValue("b", "global"))
}

func TestInfer_NestedScope(t *testing.T) {
	src := "def outer():\n    def inner():\n        y = \"s\"\n"
	table := Infer(lex(t, src), new(diag.Log))

	assert.Equal(t, Function, table.GetType("outer", "global"))
	assert.Equal(t, Function, table.GetType("inner", "outer"))
	assert.Equal(t, String, table.GetType("y", "inner@outer"))
	assert.Equal(t, "\"s\"", table.GetValue("y", "inner@outer"))
}

func TestInfer_UsageCountIncrements(t *testing.T) {
	table := Infer(lex(t, "x = 1\nx\nx\n"), new(diag.Log))
	syms := table.Symbols()
	require.Len(t, syms, 1)
	assert.Equal(t, 3, syms[0].UsageCount)
}

func TestInfer_ClassDef(t *testing.T) {
	table := Infer(lex(t, "class Car:\n    speed = 10\n"), new(diag.Log))
	assert.Equal(t, Class, table.GetType("Car", "global"))
	assert.Equal(t, Int, table.GetType("speed", "Car"))
}

func TestInfer_TypeNeverDowngrades(t *testing.T) {
	table := NewTable()
	table.InsertOrBump("x", "global", 1, String, "\"a\"")
	table.InsertOrBump("x", "global", 2, Unknown, "")
	assert.Equal(t, String, table.GetType("x", "global"))
}

func TestInfer_EntryIDsAreDenseAndOrdered(t *testing.T) {
	table := Infer(lex(t, "a = 1\nb = 2\nc = 3\n"), new(diag.Log))
	syms := table.Symbols()
	require.Len(t, syms, 3)
	for i, sym := range syms {
		assert.Equal(t, i+1, sym.EntryID)
		assert.GreaterOrEqual(t, sym.UsageCount, 1)
	}
}

func TestInfer_TupleSingleElementTakesElementType(t *testing.T) {
	table := Infer(lex(t, "x = (1)\n"), new(diag.Log))
	assert.Equal(t, Int, table.GetType("x", "global"))
}

func TestInfer_TupleMultiElement(t *testing.T) {
	table := Infer(lex(t, "x = (1, 2)\n"), new(diag.Log))
	assert.Equal(t, Tuple, table.GetType("x", "global"))
}

func TestInfer_ListAndDictAndSet(t *testing.T) {
	table := Infer(lex(t, "x = [1, 2]\ny = {1: 2}\nz = {1, 2}\n"), new(diag.Log))
	assert.Equal(t, List, table.GetType("x", "global"))
	assert.Equal(t, Dictionary, table.GetType("y", "global"))
	assert.Equal(t, Set, table.GetType("z", "global"))
}

func TestUnify(t *testing.T) {
	cases := []struct {
		a, b, want TypeTag
	}{
		{Unknown, Unknown, Unknown},
		{Unknown, Int, Int},
		{Int, Unknown, Int},
		{Float, Int, Float},
		{Int, Int, Int},
		{Bool, Bool, Bool},
		{String, String, String},
		{String, Int, Unknown},
		{Float, String, Unknown},
		{Int, String, Unknown},
		{List, Dictionary, Unknown},
		{List, List, List},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, unify(c.a, c.b), "unify(%s, %s)", c.a, c.b)
	}
}

func TestInfer_ArithmeticClearsLiteralValue(t *testing.T) {
	table := Infer(lex(t, "x = 1 + 2\n"), new(diag.Log))
	assert.Equal(t, Int, table.GetType("x", "global"))
	assert.Equal(t, "", table.GetValue("x", "global"))
}
