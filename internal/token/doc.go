// Package token defines lexical token kinds and trivia for contract expressions.
// Invariants:
//   - Token.Text is the exact source text covered by Token.Span.
//   - The implication operator `==>` is a single token (Implies); it is
//     matched greedily before `==` and `=>`.
//   - Host-language keywords are not distinguished: everything that is not a
//     boolean literal is an identifier. Terms stay opaque to the pass.
package token
