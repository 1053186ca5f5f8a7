package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"contractc/internal/diag"
	"contractc/internal/source"
)

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("u.toml", []byte("a\nb ==>\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynDanglingImplies, source.Span{File: id, Start: 4, End: 7}, "dangling").
		WithNote(source.Span{File: id, Start: 2, End: 3}, "here"))
	bag.Add(diag.New(diag.SevInfo, diag.UnitUnlocatedContract, source.Span{File: id, Start: 0, End: 1}, "info"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var got DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := DiagnosticsOutput{
		Count:     1,
		Truncated: true,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "SYN2003",
			Title:    diag.SynDanglingImplies.Title(),
			Message:  "dangling",
			Location: LocationJSON{File: "u.toml", StartByte: 4, EndByte: 7, StartLine: 2, StartCol: 3, EndLine: 2, EndCol: 6},
			Notes: []NoteJSON{{
				Message:  "here",
				Location: LocationJSON{File: "u.toml", StartByte: 2, EndByte: 3, StartLine: 2, StartCol: 1, EndLine: 2, EndCol: 2},
			}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("json output (-want +got):\n%s", diff)
	}
}

func TestJSONOmitsNotesByDefault(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("u.toml", []byte("a"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynEmptyGroup, source.Span{File: id}, "x").WithNote(source.Span{File: id}, "n"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if len(out.Diagnostics[0].Notes) != 0 || out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("unexpected %+v", out.Diagnostics[0])
	}
}
