package emit

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"contractc/internal/desugar"
	"contractc/internal/diag"
	"contractc/internal/source"
	"contractc/internal/spec"
	"contractc/internal/unit"
)

const sampleUnit = `[unit]
name = "list"

[[item]]
name = "lookup"
pure = true
requires = ["i < n ==> ok(i)"]

[[item]]
name = "Node"
kind = "struct"
invariant = ["(a ==> b) ==> c"]
`

func sampleBundle(t *testing.T) *Bundle {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	rep := &diag.BagReporter{Bag: bag}
	u, err := unit.LoadBytes(fs, "list.toml", []byte(sampleUnit), unit.FormatTOML, unit.Options{Reporter: rep})
	require.NoError(t, err)

	alloc := spec.NewAllocator(spec.AllocatorOptions{Mode: spec.IDsDeterministic, Namespace: "prusti/list"})
	d := desugar.New(fs, alloc, spec.NewRegistry(), desugar.Options{Reporter: rep, CheckConsistency: true})
	results := make([]*desugar.ItemResult, 0, len(u.Items))
	for _, it := range u.Items {
		res, err := d.Item(context.Background(), it)
		require.NoError(t, err)
		results = append(results, res)
	}
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	return NewBundle(u, results)
}

func TestNewBundle(t *testing.T) {
	b := sampleBundle(t)
	require.Equal(t, SchemaVersion, b.Schema)
	require.Equal(t, "list", b.Unit)
	require.Len(t, b.Items, 2)
	require.Equal(t, 2, b.Specs())

	lookup := b.Items[0]
	require.Equal(t, "fn", lookup.Kind)
	require.Equal(t, "pure", lookup.Markers[0].Name)
	require.Equal(t, "requires_spec_id_ref", lookup.Markers[1].Name)
	require.Equal(t, lookup.Specs[0].ID.String(), lookup.Markers[1].Value)
}

func TestWriteText(t *testing.T) {
	b := sampleBundle(t)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, b))
	out := buf.String()

	s := b.Items[0].Specs[0]
	for _, want := range []string{
		"#[spec_only]\n#[spec_id = \"" + s.ID.String() + "\"]\n",
		"fn " + s.Holder.Name + "() {\n",
		"    #[expr_id = \"" + spec.ThunkName(s.ID, 101) + "\"]\n    || -> bool { i < n };\n",
		"    || -> bool { ok(i) };\n}\n",
		"#[pure]\n#[requires_spec_id_ref = \"" + s.ID.String() + "\"]\nfn lookup;\n",
		"struct Node;\n",
	} {
		require.Contains(t, out, want)
	}
	// the assertion marker value is a quoted JSON string
	require.Contains(t, out, `#[assertion = "{\"kind\":{\"Implies\":`)
	require.Less(t, strings.Index(out, s.Holder.Name), strings.Index(out, "fn lookup;"),
		"holder items precede the annotated item")
}

func bundleOpts() cmp.Options {
	return cmp.Options{
		cmpopts.IgnoreFields(spec.Thunk{}, "Span"),
	}
}

func TestJSONRoundTrip(t *testing.T) {
	b := sampleBundle(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, b))
	require.Contains(t, buf.String(), `"kind": "requires"`)

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(b, got, bundleOpts()); diff != "" {
		t.Fatalf("json round trip (-want +got):\n%s", diff)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	b := sampleBundle(t)
	var buf bytes.Buffer
	require.NoError(t, WriteMsgpack(&buf, b))

	got, err := ReadMsgpack(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(b, got, bundleOpts()); diff != "" {
		t.Fatalf("msgpack round trip (-want +got):\n%s", diff)
	}
}

func TestDecodedBundleResolvesThunks(t *testing.T) {
	b := sampleBundle(t)
	codecs := []struct {
		name  string
		write func(*bytes.Buffer, *Bundle) error
		read  func(*bytes.Buffer) (*Bundle, error)
	}{
		{"json", func(w *bytes.Buffer, b *Bundle) error { return WriteJSON(w, b) }, func(r *bytes.Buffer) (*Bundle, error) { return ReadJSON(r) }},
		{"msgpack", func(w *bytes.Buffer, b *Bundle) error { return WriteMsgpack(w, b) }, func(r *bytes.Buffer) (*Bundle, error) { return ReadMsgpack(r) }},
	}
	want := []string{"i < n ==> ok(i)", "(a ==> b) ==> c"}
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.write(&buf, b))
			got, err := c.read(&buf)
			require.NoError(t, err)
			require.Len(t, got.Items, len(want))
			for i, it := range got.Items {
				s := it.Specs[0].Specification(it.Name)
				require.NoError(t, spec.Verify(s))
				require.Equal(t, want[i], s.Surface())
				for j, e := range s.Expressions() {
					require.Equal(t, j, e.Thunk, "leaf %d", j)
				}
			}
		})
	}
}

func TestSpecificationRelinksUnlinkedLeaves(t *testing.T) {
	b := sampleBundle(t)
	node := b.Items[1].Specs[0]
	// as an external tool would build it: ids only, no thunk indices
	bare, err := spec.DecodeAssertion(mustMarker(t, node.Holder.Markers, spec.MarkerAssertion))
	require.NoError(t, err)
	node.Assertion = bare

	s := node.Specification("Node")
	require.NoError(t, spec.Verify(s))
	require.Equal(t, "(a ==> b) ==> c", s.Surface())
}

func mustMarker(t *testing.T, ms spec.Markers, name string) string {
	t.Helper()
	v, ok := ms.Get(name)
	require.True(t, ok, "marker %s missing", name)
	return v
}

func TestSchemaMismatch(t *testing.T) {
	b := sampleBundle(t)
	b.Schema = SchemaVersion + 1
	var buf bytes.Buffer
	require.NoError(t, WriteMsgpack(&buf, b))
	_, err := ReadMsgpack(&buf)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestWriteTrees(t *testing.T) {
	b := sampleBundle(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTree, b))
	out := buf.String()
	require.Contains(t, out, "requires #0 of lookup")
	require.Contains(t, out, "invariant #0 of Node")
	require.Contains(t, out, "101: i < n")
	require.Contains(t, out, "103: c")
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{FormatText, FormatJSON, FormatMsgpack, FormatTree} {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	_, err := ParseFormat("yaml")
	require.Error(t, err)
	require.True(t, FormatMsgpack.Binary())
	require.False(t, FormatJSON.Binary())
}

func TestWriteFile(t *testing.T) {
	b := sampleBundle(t)
	path := filepath.Join(t.TempDir(), "out", "list.mp")
	require.NoError(t, WriteFile(path, FormatMsgpack, b))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := ReadMsgpack(f)
	require.NoError(t, err)
	require.Equal(t, b.Specs(), got.Specs())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}
