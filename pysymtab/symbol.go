// Package pysymtab implements a scoped symbol table and an
// assignment-driven type inferrer. Both are grounded on
// original_source/Compiler.cpp's SymbolTable and Parser classes,
// restated as an ordered Go map keyed by (name, scope_path) instead of
// the original's unordered_map plus separate sort-by-entry pass in
// printSymbols.
package pysymtab

import (
	"fmt"
	"io"
)

// TypeTag is one of the closed set of inferred types.
type TypeTag int

const (
	Unknown TypeTag = iota
	Int
	Float
	String
	Bool
	List
	Tuple
	Set
	Dictionary
	Function
	Class
)

var typeTagNames = [...]string{
	Unknown: "unknown", Int: "int", Float: "float", String: "string",
	Bool: "bool", List: "list", Tuple: "tuple", Set: "set",
	Dictionary: "dictionary", Function: "function", Class: "class",
}

func (t TypeTag) String() string {
	if int(t) >= 0 && int(t) < len(typeTagNames) {
		return typeTagNames[t]
	}
	return "unknown"
}

// Symbol is one entry of the table, ported from SymbolInfo.
type Symbol struct {
	EntryID          int
	Name             string
	ScopePath        string
	Type             TypeTag
	FirstAppearance  int
	UsageCount       int
	Value            string
}

func key(name, scope string) string {
	return name + "@" + scope
}

// Table is the flat (name, scope_path)-keyed symbol store. Entries are
// kept in an index slice in insertion order so that dumping by entry_id
// never needs a sort, unlike printSymbols's sort-by-entry pass over the
// whole map.
type Table struct {
	byKey   map[string]*Symbol
	ordered []*Symbol
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{byKey: make(map[string]*Symbol)}
}

// InsertOrBump creates a new entry with usage 1 on first sighting; on
// repeat, bumps usage, upgrades
// an unknown type tag to a known one (never downgrades), and overwrites
// value whenever a non-empty one is supplied.
func (t *Table) InsertOrBump(name, scope string, line int, typ TypeTag, value string) *Symbol {
	k := key(name, scope)
	if sym, ok := t.byKey[k]; ok {
		sym.UsageCount++
		if sym.Type == Unknown && typ != Unknown {
			sym.Type = typ
		}
		if value != "" {
			sym.Value = value
		}
		return sym
	}
	sym := &Symbol{
		EntryID:         len(t.ordered) + 1,
		Name:            name,
		ScopePath:       scope,
		Type:            typ,
		FirstAppearance: line,
		UsageCount:      1,
		Value:           value,
	}
	t.byKey[k] = sym
	t.ordered = append(t.ordered, sym)
	return sym
}

// UpdateType overwrites a symbol's type tag unconditionally. No-op if
// the symbol does not exist.
func (t *Table) UpdateType(name, scope string, typ TypeTag) {
	if sym, ok := t.byKey[key(name, scope)]; ok {
		sym.Type = typ
	}
}

// UpdateValue overwrites a symbol's value text. No-op if the symbol does
// not exist.
func (t *Table) UpdateValue(name, scope, value string) {
	if sym, ok := t.byKey[key(name, scope)]; ok {
		sym.Value = value
	}
}

// Exists reports whether (name, scope) has been inserted.
func (t *Table) Exists(name, scope string) bool {
	_, ok := t.byKey[key(name, scope)]
	return ok
}

// GetType returns the symbol's type tag, or Unknown if absent.
func (t *Table) GetType(name, scope string) TypeTag {
	if sym, ok := t.byKey[key(name, scope)]; ok {
		return sym.Type
	}
	return Unknown
}

// GetValue returns the symbol's value text, or "" if absent.
func (t *Table) GetValue(name, scope string) string {
	if sym, ok := t.byKey[key(name, scope)]; ok {
		return sym.Value
	}
	return ""
}

// EntryID returns the symbol's entry_id and true, or (0, false) if
// (name, scope) was never inserted. It satisfies pyscanner's
// symbolEntries interface, letting WriteWords print an identifier's
// symbol-table entry reference without pysymtab importing pyscanner's
// dumper.
func (t *Table) EntryID(name, scope string) (int, bool) {
	sym, ok := t.byKey[key(name, scope)]
	if !ok {
		return 0, false
	}
	return sym.EntryID, true
}

// Symbols returns every stored symbol ordered by entry_id (dense,
// strictly increasing from 1).
func (t *Table) Symbols() []*Symbol {
	return append([]*Symbol(nil), t.ordered...)
}

// Len reports how many symbols are stored.
func (t *Table) Len() int {
	return len(t.ordered)
}

// WriteTable renders the symbol table dump: one row per symbol, ordered
// by entry_id, omitting the value field when empty
// (ported from original_source's printSymbols, which only emits
// ", Value: ..." when info.value is non-empty).
func (t *Table) WriteTable(w io.Writer) error {
	for _, sym := range t.ordered {
		line := fmt.Sprintf("Entry: %d, Name: %s, Scope: %s, Type: %s, First Appearance: Line %d, Usage Count: %d",
			sym.EntryID, sym.Name, sym.ScopePath, sym.Type, sym.FirstAppearance, sym.UsageCount)
		if sym.Value != "" {
			line += ", Value: " + sym.Value
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
