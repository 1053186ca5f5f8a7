package fuzztests

import (
	"context"
	"testing"
	"time"

	"fortio.org/safecast"

	"contractc/internal/ast"
	"contractc/internal/diag"
	"contractc/internal/parser"
	"contractc/internal/source"
	"contractc/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parseInput(t *testing.T, input []byte, guarded bool) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("fuzz.contract", input)
	end, err := safecast.Conv[uint32](len(input))
	if err != nil {
		t.Skip("input too large")
	}
	whole := source.Span{File: fileID, Start: 0, End: end}

	bag := diag.NewBag(128)
	builder := ast.NewBuilder(ast.Hints{})
	res := parser.ParseSpan(fs, whole, builder, parser.Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		MaxErrors: 128,
		Guarded:   guarded,
	})

	if !res.Ok() {
		if !bag.HasErrors() {
			t.Fatalf("rejected without an error diagnostic: %q", truncateForLog(input, 200))
		}
		return
	}
	if err := testkit.CheckExprInvariants(builder.Exprs, res.Root, whole); err != nil {
		t.Fatalf("span invariants on %q: %v", truncateForLog(input, 200), err)
	}
	if got := len(builder.Exprs.Leaves(res.Root)); got != res.Leaves {
		t.Fatalf("leaf count %d, result says %d", got, res.Leaves)
	}
}

func FuzzParserContract(f *testing.F) {
	addExprSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		parseInput(t, input, false)
		parseInput(t, input, true)
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
func FuzzParserNoHang(f *testing.F) {
	addExprSeeds(f)

	f.Add([]byte("((((((((((a ==> b))))))))))"))
	f.Add([]byte("a ==> b ==> c ==> d ==> e ==> f ==> g ==> h"))
	f.Add([]byte("(((((((((("))
	f.Add([]byte("\"unterminated ==> b"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		end, err := safecast.Conv[uint32](len(input))
		if err != nil {
			t.Skip("input too large")
		}

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			fileID := fs.AddVirtual("fuzz.contract", input)
			span := source.Span{File: fileID, End: end}
			_ = parser.ParseSpan(fs, span, ast.NewBuilder(ast.Hints{}), parser.Options{
				Reporter:  &diag.BagReporter{Bag: diag.NewBag(128)},
				MaxErrors: 128,
			})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
