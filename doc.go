// Package decicalc implements a decimal calculator for typed infix
// expressions.
//
// Expressions are built from decimal literals like 12 or 0.5, the binary
// operators + - * / and ** (written ^ as well), unary signs, and parentheses.
// "-2**2" is the same as "-(2**2)", and "2**3**2" is "2**(3**2)". Nothing else
// is accepted; in particular there are no variables or functions, and input is
// never handed to any general-purpose evaluator.
//
// Arithmetic is decimal throughout. A Context fixes the number of significant
// digits retained by each operation and the largest magnitude a result may
// have, so two contexts with different precisions can evaluate side by side.
// Format renders a result for display according to a FormatConfig, and
// Classify maps any failure onto the small set of categories a user interface
// shows.
//
// A Session ties these together with a bounded History of the expressions it
// has evaluated successfully.
package decicalc
