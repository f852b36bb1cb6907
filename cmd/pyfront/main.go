// Command pyfront runs the lexer, symbol table/inferrer and parser over
// one source file (or stdin) and writes the token stream, symbol
// table, parse tree, and optional DOT export to stdout, mirroring
// kite-go/lang/python/cmds/parse/parse.go's flag-based driver.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/kiteco/pyfront/internal/diag"
	"github.com/kiteco/pyfront/internal/kitectx"
	"github.com/kiteco/pyfront/pyast"
	"github.com/kiteco/pyfront/pyparser"
	"github.com/kiteco/pyfront/pyscanner"
	"github.com/kiteco/pyfront/pysymtab"
	"github.com/pkg/errors"
)

func main() {
	var printWords, printSymbols, printTree, printDOT bool
	flag.BoolVar(&printWords, "words", true, "print the token stream")
	flag.BoolVar(&printSymbols, "symbols", true, "print the symbol table")
	flag.BoolVar(&printTree, "tree", true, "print the parse tree")
	flag.BoolVar(&printDOT, "dot", false, "print a DOT export of the parse tree")
	flag.Parse()

	src, label, err := readSource()
	if err != nil {
		log.Fatalln(err)
	}

	var logEntries diag.Log
	words := pyscanner.Tokenize(src, &logEntries)
	symbols := pysymtab.Infer(words, &logEntries)
	tree := pyparser.Parse(kitectx.Background(), words, &logEntries)

	fmt.Printf("Source: %s\n\n", label)

	if printWords {
		fmt.Println("Words:")
		if err := pyscanner.WriteWords(os.Stdout, words, symbols); err != nil {
			log.Fatalln(err)
		}
		fmt.Println()
	}

	if printSymbols {
		fmt.Println("Symbol table:")
		if err := symbols.WriteTable(os.Stdout); err != nil {
			log.Fatalln(err)
		}
		fmt.Println()
	}

	if printTree {
		fmt.Println("Parse tree:")
		if err := pyast.Print(tree, os.Stdout); err != nil {
			log.Fatalln(err)
		}
		fmt.Println()
	}

	if printDOT {
		fmt.Println("DOT:")
		if err := pyast.WriteDOT(tree, os.Stdout); err != nil {
			log.Fatalln(err)
		}
		fmt.Println()
	}

	if logEntries.Len() > 0 {
		fmt.Fprintln(os.Stderr, "Diagnostics:")
		if _, err := logEntries.WriteTo(os.Stderr); err != nil {
			log.Fatalln(err)
		}
	}
}

// readSource reads the file named by the sole positional argument, or
// stdin when none is given.
func readSource() ([]byte, string, error) {
	if flag.NArg() > 0 {
		path := flag.Arg(0)
		src, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, "", errors.Wrapf(err, "reading %s", path)
		}
		return src, path, nil
	}

	src, err := ioutil.ReadAll(os.Stdin)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading stdin")
	}
	return src, "<stdin>", nil
}
