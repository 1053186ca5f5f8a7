// Package desugar expands contract occurrences into specifications.
//
// For every occurrence that parses, the desugarer allocates a fresh
// SpecificationID, numbers the leaves left to right from the configured
// base, emits one thunk per leaf into a synthetic holder item, builds the
// assertion tree with the same shape as the parse, and appends the id to
// the back-references of the annotated item. An occurrence that fails to
// parse produces nothing; its siblings are unaffected.
package desugar
