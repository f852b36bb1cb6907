package pyscanner

import (
	"fmt"
	"io"
)

// symbolEntries is the minimal view WriteWords needs of a pysymtab.Table,
// kept here (rather than importing pysymtab, which already imports
// pyscanner) to avoid a package cycle.
type symbolEntries interface {
	// EntryID returns the symbol table entry number for name at scope,
	// and whether it was found.
	EntryID(name, scope string) (int, bool)
}

// WriteWords renders one line per token, grounded on
// cmds/parse/parse.go's "for _, word := range words { fmt.Printf(...) }"
// loop for the overall shape, and on original_source's main() for the
// identifier convention: rather than the raw lexeme, an Identifier
// token prints its symbol-table entry reference ("symbol table entry :
// N", or "symbol table entry: not found" when syms has no matching
// entry), exactly as main()'s token dump looks up
// `symTable.table[tk.lexeme + "@" + tk.scope]`.
func WriteWords(w io.Writer, words []Word, syms symbolEntries) error {
	for _, word := range words {
		rendered := word.String()
		if word.Kind == Identifier && syms != nil {
			if id, ok := syms.EntryID(word.Lexeme, word.ScopePath); ok {
				rendered = fmt.Sprintf("IDENTIFIER[symbol table entry : %d]", id)
			} else {
				rendered = "IDENTIFIER[symbol table entry: not found]"
			}
		}
		line := fmt.Sprintf("%d: %s", word.Line, rendered)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
