// Package kalkulator implements a safe arithmetic calculator and a small
// equation solver.
//
// The expression evaluator parses a string into a closed set of syntax tree
// nodes (numeric literals, unary sign, and the binary operators + - * / % ^)
// and evaluates the tree over arbitrary-precision floats. "^" and "**" both
// mean exponentiation. Everything outside that grammar is rejected before
// evaluation: there is no function call syntax, no name lookup in the default
// context, and no path that executes anything other than the fixed operator
// set.
//
// The equation solver reuses the same parser with variables permitted. It
// folds each side of an equation into a univariate polynomial with exact
// rational coefficients and solves up to degree two.
package kalkulator
