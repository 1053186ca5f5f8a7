// Package diag defines the diagnostic model shared by every phase of the
// contract pass (unit loading, lexing, parsing, desugaring).
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – numeric identifier with a stable string form (see codes.go).
//   - Message – short, lowercase, actionable text.
//   - Primary – the source.Span the finding is reported at.
//   - Notes – optional secondary spans with extra context.
//
// # Emitting diagnostics
//
// Phases report through a Reporter. ReportBuilder (ReportError/ReportWarning)
// lets a phase attach notes before Emit. BagReporter collects into a Bag,
// which supports limits, sorting and deduplication.
//
// Package diag does not format or print anything; rendering lives in
// internal/diagfmt.
package diag
