// Package spec holds the desugared form of contract occurrences: the
// identifiers, the assertion tree, the synthetic holder item with its
// thunks, and the consistency checks that tie them together.
//
// A Specification is produced once per successfully parsed occurrence.
// Its assertion leaves reference thunks of its holder by ExpressionID;
// Verify checks that the two encodings agree.
package spec
