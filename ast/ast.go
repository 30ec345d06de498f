// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast declares the types used to define template trees.
//
// For example, the source in a template file named "articles.liquid":
//
//	{% for article in articles %}
//	<div>{{ article.title }}</div>
//	{% endfor %}
//
// is represented with the tree:
//
//	&ast.Tree{Path: "articles.liquid", Nodes: []ast.Node{
//		&ast.For{
//			Position:         &ast.Position{Line: 1, Column: 1, Start: 0, End: 28},
//			Variable:         "article",
//			Collection:       &ast.Lookup{Name: "articles"},
//			CollectionSource: "articles",
//			Body: []ast.Node{
//				&ast.Text{Text: "\n<div>"},
//				&ast.Output{Expr: &ast.Lookup{Name: "article", Keys: []*ast.Key{{Name: "title"}}}},
//				&ast.Text{Text: "</div>\n"},
//			},
//		},
//	}}
//
// Trees are immutable once parsed and can be rendered concurrently.
package ast

import (
	"strconv"
	"strings"

	"github.com/liquidgo/liquid/native"
)

// OperatorType represents the operator of a comparison or of a logical
// expression.
type OperatorType int

const (
	OperatorEqual        OperatorType = iota // ==
	OperatorNotEqual                         // != and <>
	OperatorLess                             // <
	OperatorLessEqual                        // <=
	OperatorGreater                          // >
	OperatorGreaterEqual                     // >=
	OperatorContains                         // contains
	OperatorAnd                              // and
	OperatorOr                               // or
)

// String returns the string representation of the operator type.
func (op OperatorType) String() string {
	return []string{"==", "!=", "<", "<=", ">", ">=", "contains", "and", "or"}[op]
}

// Node is a node of the tree.
type Node interface {
	Pos() *Position // position in the original source
}

// Position is a position of a node in the source.
type Position struct {
	Line   int // line starting from 1
	Column int // column in characters starting from 1
	Start  int // index of the first byte
	End    int // index of the last byte
}

// Pos returns the position p.
func (p *Position) Pos() *Position {
	return p
}

// String returns the line and column separated by a colon, for example "37:18".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Expression node represents an expression.
type Expression interface {
	Node
	String() string
}

// Tree node represents a template.
type Tree struct {
	*Position
	Path  string // path of the template, empty for a template parsed from source.
	Nodes []Node // nodes of the first level of the tree.
}

// NewTree returns a new Tree node.
func NewTree(path string, nodes []Node) *Tree {
	return &Tree{&Position{1, 1, 0, 0}, path, nodes}
}

// Text node represents a text in the source, already trimmed by the
// whitespace control delimiters.
type Text struct {
	*Position        // position in the source.
	Text      string // text.
}

// NewText returns a new Text node.
func NewText(pos *Position, text string) *Text {
	return &Text{pos, text}
}

// String returns the text.
func (n *Text) String() string {
	return n.Text
}

// Output node represents an output statement, {{ expr }} or the echo tag.
type Output struct {
	*Position            // position in the source.
	Expr      Expression // expression.
	Echo      bool       // reports whether it is an echo tag.
}

// NewOutput returns a new Output node.
func NewOutput(pos *Position, expr Expression, echo bool) *Output {
	return &Output{pos, expr, echo}
}

// String returns the string representation of n.
func (n *Output) String() string {
	if n.Echo {
		return "echo " + n.Expr.String()
	}
	return "{{ " + n.Expr.String() + " }}"
}

// Literal node represents a literal: nil, true, false, a number or a string.
// Value is nil, a bool, an int, a float64 or a string.
type Literal struct {
	*Position             // position in the source.
	Value     interface{} // value.
}

// NewLiteral returns a new Literal node.
func NewLiteral(pos *Position, value interface{}) *Literal {
	return &Literal{pos, value}
}

// String returns the string representation of n.
func (n *Literal) String() string {
	switch v := n.Value.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case float64:
		return native.FormatFloat(v)
	}
	return native.ToOutput(n.Value)
}

// MethodLiteral node represents the empty and blank literals.
type MethodLiteral struct {
	*Position                      // position in the source.
	Method    native.MethodLiteral // empty or blank.
}

// NewMethodLiteral returns a new MethodLiteral node.
func NewMethodLiteral(pos *Position, method native.MethodLiteral) *MethodLiteral {
	return &MethodLiteral{pos, method}
}

// String returns "empty" or "blank".
func (n *MethodLiteral) String() string {
	return n.Method.Name()
}

// Range node represents a range expression (start..end).
type Range struct {
	*Position            // position in the source.
	Start     Expression // start.
	End       Expression // end.
}

// NewRange returns a new Range node.
func NewRange(pos *Position, start, end Expression) *Range {
	return &Range{pos, start, end}
}

// String returns the string representation of n.
func (n *Range) String() string {
	return "(" + n.Start.String() + ".." + n.End.String() + ")"
}

// Key is a key of a variable lookup: a name after a dot or an expression
// between square brackets.
type Key struct {
	Name  string     // name for a.name keys.
	Index Expression // index for a[index] keys, nil for a.name keys.
}

// IsCommand reports whether k is one of the size, first and last commands.
func (k *Key) IsCommand() bool {
	return k.Index == nil && (k.Name == "size" || k.Name == "first" || k.Name == "last")
}

// Lookup node represents a variable lookup, for example a.b[0]["c"].
type Lookup struct {
	*Position            // position in the source.
	Name      string     // name of the variable.
	Dynamic   Expression // name expression of a lookup beginning with [expr]; Name is empty.
	Keys      []*Key     // keys.
}

// NewLookup returns a new Lookup node.
func NewLookup(pos *Position, name string, dynamic Expression, keys []*Key) *Lookup {
	return &Lookup{pos, name, dynamic, keys}
}

// String returns the string representation of n.
func (n *Lookup) String() string {
	var b strings.Builder
	if n.Dynamic != nil {
		b.WriteString("[" + n.Dynamic.String() + "]")
	} else {
		b.WriteString(n.Name)
	}
	for _, k := range n.Keys {
		if k.Index != nil {
			b.WriteString("[" + k.Index.String() + "]")
		} else {
			b.WriteString("." + k.Name)
		}
	}
	return b.String()
}

// Filtered node represents an expression followed by filters.
type Filtered struct {
	*Position            // position in the source.
	Expr      Expression // filtered expression.
	Filters   []*Filter  // filters.
}

// NewFiltered returns a new Filtered node.
func NewFiltered(pos *Position, expr Expression, filters []*Filter) *Filtered {
	return &Filtered{pos, expr, filters}
}

// String returns the string representation of n.
func (n *Filtered) String() string {
	s := n.Expr.String()
	for _, f := range n.Filters {
		s += " | " + f.String()
	}
	return s
}

// Filter node represents a filter with its arguments.
type Filter struct {
	*Position               // position in the source.
	Name      string        // name.
	Args      []Expression  // positional arguments.
	Kwargs    []*KeywordArg // keyword arguments.
}

// NewFilter returns a new Filter node.
func NewFilter(pos *Position, name string, args []Expression, kwargs []*KeywordArg) *Filter {
	return &Filter{pos, name, args, kwargs}
}

// String returns the string representation of n.
func (n *Filter) String() string {
	if len(n.Args) == 0 && len(n.Kwargs) == 0 {
		return n.Name
	}
	s := n.Name + ": "
	for i, arg := range n.Args {
		if i > 0 {
			s += ", "
		}
		s += arg.String()
	}
	for i, kw := range n.Kwargs {
		if i > 0 || len(n.Args) > 0 {
			s += ", "
		}
		s += kw.String()
	}
	return s
}

// KeywordArg node represents a keyword argument of a filter or an attribute
// of a tag, name: value.
type KeywordArg struct {
	*Position            // position in the source.
	Name      string     // name.
	Value     Expression // value.
}

// NewKeywordArg returns a new KeywordArg node.
func NewKeywordArg(pos *Position, name string, value Expression) *KeywordArg {
	return &KeywordArg{pos, name, value}
}

// String returns the string representation of n.
func (n *KeywordArg) String() string {
	return n.Name + ": " + n.Value.String()
}

// Comparison node represents a comparison of two expressions.
type Comparison struct {
	*Position              // position in the source.
	Op        OperatorType // operator.
	Left      Expression   // left expression.
	Right     Expression   // right expression.
}

// NewComparison returns a new Comparison node.
func NewComparison(pos *Position, op OperatorType, left, right Expression) *Comparison {
	return &Comparison{pos, op, left, right}
}

// String returns the string representation of n.
func (n *Comparison) String() string {
	return n.Left.String() + " " + n.Op.String() + " " + n.Right.String()
}

// Logical node represents an "and" or an "or" of two conditions. Logical
// operators are right-associative, "a and b or c" is "a and (b or c)".
type Logical struct {
	*Position              // position in the source.
	Op        OperatorType // OperatorAnd or OperatorOr.
	Left      Expression   // left condition.
	Right     Expression   // right condition.
}

// NewLogical returns a new Logical node.
func NewLogical(pos *Position, op OperatorType, left, right Expression) *Logical {
	return &Logical{pos, op, left, right}
}

// String returns the string representation of n.
func (n *Logical) String() string {
	return n.Left.String() + " " + n.Op.String() + " " + n.Right.String()
}

// Assign node represents an assign tag.
type Assign struct {
	*Position            // position in the source.
	Name      string     // name of the variable.
	Value     Expression // assigned value.
}

// NewAssign returns a new Assign node.
func NewAssign(pos *Position, name string, value Expression) *Assign {
	return &Assign{pos, name, value}
}

// String returns the string representation of n.
func (n *Assign) String() string {
	return "assign " + n.Name + " = " + n.Value.String()
}

// Capture node represents a capture block.
type Capture struct {
	*Position        // position in the source.
	Name      string // name of the variable.
	Body      []Node // body.
}

// NewCapture returns a new Capture node.
func NewCapture(pos *Position, name string) *Capture {
	return &Capture{pos, name, nil}
}

// String returns the string representation of n.
func (n *Capture) String() string {
	return "capture " + n.Name
}

// Increment node represents an increment or a decrement tag.
type Increment struct {
	*Position        // position in the source.
	Name      string // name of the counter.
	Decrement bool   // reports whether it is a decrement.
}

// NewIncrement returns a new Increment node.
func NewIncrement(pos *Position, name string, decrement bool) *Increment {
	return &Increment{pos, name, decrement}
}

// String returns the string representation of n.
func (n *Increment) String() string {
	if n.Decrement {
		return "decrement " + n.Name
	}
	return "increment " + n.Name
}

// Branch is a branch of an if or unless tag.
type Branch struct {
	*Position            // position in the source.
	Cond      Expression // condition, nil for an else branch.
	Body      []Node     // body.
}

// If node represents an if or an unless tag. The first branch whose
// condition is true, or that is an else branch, is rendered. For an unless
// tag the condition of the first branch is negated.
type If struct {
	*Position           // position in the source.
	Branches  []*Branch // if, elsif and else branches in source order.
	Unless    bool      // reports whether it is an unless tag.
}

// NewIf returns a new If node.
func NewIf(pos *Position, cond Expression, unless bool) *If {
	return &If{pos, []*Branch{{pos, cond, nil}}, unless}
}

// String returns the string representation of n.
func (n *If) String() string {
	if n.Unless {
		return "unless " + n.Branches[0].Cond.String()
	}
	return "if " + n.Branches[0].Cond.String()
}

// When is a clause of a case tag.
type When struct {
	*Position              // position in the source.
	Values    []Expression // compared values, nil for an else clause.
	Body      []Node       // body.
	Else      bool         // reports whether it is an else clause.
}

// Case node represents a case tag. Every when clause whose values match is
// rendered, in order. Else clauses are rendered if no previous when clause
// matched.
type Case struct {
	*Position            // position in the source.
	Expr      Expression // compared expression.
	Clauses   []*When    // clauses.
}

// NewCase returns a new Case node.
func NewCase(pos *Position, expr Expression) *Case {
	return &Case{pos, expr, nil}
}

// String returns the string representation of n.
func (n *Case) String() string {
	return "case " + n.Expr.String()
}

// For node represents a for tag.
type For struct {
	*Position                   // position in the source.
	Variable         string     // name of the loop variable.
	Collection       Expression // iterated collection.
	CollectionSource string     // source of the collection expression.
	Offset           Expression // offset, nil if not present.
	OffsetContinue   bool       // reports whether the offset is "continue".
	Limit            Expression // limit, nil if not present.
	Reversed         bool       // reports whether the collection is reversed.
	Body             []Node     // body.
	Else             []Node     // else body, nil if there is no else.
}

// Key returns the identity of the loop for the offset:continue attribute.
func (n *For) Key() string {
	return n.Variable + "-" + n.CollectionSource
}

// String returns the string representation of n.
func (n *For) String() string {
	s := "for " + n.Variable + " in " + n.CollectionSource
	if n.Reversed {
		s += " reversed"
	}
	if n.Limit != nil {
		s += " limit: " + n.Limit.String()
	}
	if n.OffsetContinue {
		s += " offset: continue"
	} else if n.Offset != nil {
		s += " offset: " + n.Offset.String()
	}
	return s
}

// Tablerow node represents a tablerow tag.
type Tablerow struct {
	*Position                   // position in the source.
	Variable         string     // name of the loop variable.
	Collection       Expression // iterated collection.
	CollectionSource string     // source of the collection expression.
	Cols             Expression // columns, nil if not present.
	Offset           Expression // offset, nil if not present.
	Limit            Expression // limit, nil if not present.
	Body             []Node     // body.
}

// String returns the string representation of n.
func (n *Tablerow) String() string {
	s := "tablerow " + n.Variable + " in " + n.CollectionSource
	if n.Cols != nil {
		s += " cols: " + n.Cols.String()
	}
	if n.Limit != nil {
		s += " limit: " + n.Limit.String()
	}
	if n.Offset != nil {
		s += " offset: " + n.Offset.String()
	}
	return s
}

// Cycle node represents a cycle tag.
//
// Group is the key of the counter of an unnamed cycle. Cycles with the same
// literal values have the same group; a cycle with a non literal value has a
// group unique to the node. Named cycles use the evaluated name instead.
type Cycle struct {
	*Position              // position in the source.
	Name      Expression   // group name, nil if not present.
	Values    []Expression // values.
	Group     string       // group of an unnamed cycle.
}

// NewCycle returns a new Cycle node.
func NewCycle(pos *Position, name Expression, values []Expression, group string) *Cycle {
	return &Cycle{pos, name, values, group}
}

// String returns the string representation of n.
func (n *Cycle) String() string {
	s := "cycle "
	if n.Name != nil {
		s += n.Name.String() + ": "
	}
	for i, v := range n.Values {
		if i > 0 {
			s += ", "
		}
		s += v.String()
	}
	return s
}

// Break node represents a break tag.
type Break struct {
	*Position // position in the source.
}

// NewBreak returns a new Break node.
func NewBreak(pos *Position) *Break {
	return &Break{pos}
}

// String returns "break".
func (n *Break) String() string { return "break" }

// Continue node represents a continue tag.
type Continue struct {
	*Position // position in the source.
}

// NewContinue returns a new Continue node.
func NewContinue(pos *Position) *Continue {
	return &Continue{pos}
}

// String returns "continue".
func (n *Continue) String() string { return "continue" }

// Ifchanged node represents an ifchanged block.
type Ifchanged struct {
	*Position        // position in the source.
	Body      []Node // body.
}

// NewIfchanged returns a new Ifchanged node.
func NewIfchanged(pos *Position) *Ifchanged {
	return &Ifchanged{pos, nil}
}

// String returns "ifchanged".
func (n *Ifchanged) String() string { return "ifchanged" }

// Include node represents an include tag.
type Include struct {
	*Position                // position in the source.
	Template   Expression    // name of the partial.
	Variable   Expression    // value of "with" or "for", nil if not present.
	For        bool          // reports whether Variable is introduced by "for".
	Alias      string        // name introduced by "as", empty if not present.
	Attributes []*KeywordArg // attributes.
}

// String returns the string representation of n.
func (n *Include) String() string {
	return "include " + partialString(n.Template.String(), n.Variable, n.For, n.Alias, n.Attributes)
}

// Render node represents a render tag.
type Render struct {
	*Position                // position in the source.
	Template   string        // name of the partial.
	Variable   Expression    // value of "with" or "for", nil if not present.
	For        bool          // reports whether Variable is introduced by "for".
	Alias      string        // name introduced by "as", empty if not present.
	Attributes []*KeywordArg // attributes.
}

// String returns the string representation of n.
func (n *Render) String() string {
	return "render " + partialString(strconv.Quote(n.Template), n.Variable, n.For, n.Alias, n.Attributes)
}

func partialString(name string, variable Expression, isFor bool, alias string, attributes []*KeywordArg) string {
	s := name
	if variable != nil {
		if isFor {
			s += " for "
		} else {
			s += " with "
		}
		s += variable.String()
	}
	if alias != "" {
		s += " as " + alias
	}
	for _, attr := range attributes {
		s += ", " + attr.String()
	}
	return s
}
