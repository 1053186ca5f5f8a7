package unit

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"contractc/internal/diag"
	"contractc/internal/lexer"
	"contractc/internal/source"
	"contractc/internal/spec"
)

type Options struct {
	Reporter diag.Reporter
}

// Load reads a .toml/.yaml unit from disk into fs and validates it.
// Decode errors are returned; validation problems go to opts.Reporter.
func Load(fs *source.FileSet, path string, opts Options) (*Unit, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load unit: %w", err)
	}
	return build(fs, id, format, opts)
}

// LoadBytes is Load for in-memory content.
func LoadBytes(fs *source.FileSet, name string, content []byte, format Format, opts Options) (*Unit, error) {
	id := fs.AddVirtual(name, content)
	return build(fs, id, format, opts)
}

func build(fs *source.FileSet, id source.FileID, format Format, opts Options) (*Unit, error) {
	file := fs.Get(id)
	raw, err := decode(file.Content, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Path, err)
	}

	u := &Unit{
		Name: raw.Unit.Name,
		Path: file.Path,
		File: id,
	}
	if u.Name == "" {
		u.Name = strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
	}

	b := &builder{fs: fs, file: file, opts: opts, loc: newLocator(file.Content), seen: make(map[string]*Item)}
	for i := range raw.Items {
		if it := b.item(&raw.Items[i], i); it != nil {
			u.Items = append(u.Items, it)
		}
		b.loc.advance()
	}
	return u, nil
}

type builder struct {
	fs   *source.FileSet
	file *source.File
	opts Options
	loc  *locator
	seen map[string]*Item
}

func (b *builder) fileStart() source.Span {
	return source.Span{File: b.file.ID}
}

func (b *builder) spanOf(start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("unit offset overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("unit offset overflow: %w", err))
	}
	return source.Span{File: b.file.ID, Start: s, End: e}
}

func (b *builder) item(raw *rawItem, idx int) *Item {
	rep := b.opts.Reporter

	if raw.Name == "" {
		diag.ReportError(rep, diag.UnitMissingItemName, b.fileStart(),
			fmt.Sprintf("item #%d has no name", idx+1)).Emit()
		return nil
	}

	it := &Item{Name: raw.Name, Pure: raw.Pure, Trusted: raw.Trusted, Span: b.fileStart()}
	if start, end, ok := b.loc.find(raw.Name); ok {
		it.Span = b.spanOf(start, end)
	}

	if !lexer.IsIdent(raw.Name) {
		diag.ReportError(rep, diag.UnitInvalidItemName, it.Span,
			fmt.Sprintf("item name %q is not an identifier", raw.Name)).Emit()
		return nil
	}

	if prev, dup := b.seen[raw.Name]; dup {
		diag.ReportError(rep, diag.UnitDuplicateItem, it.Span,
			fmt.Sprintf("item %q is declared more than once", raw.Name)).
			WithNote(prev.Span, "first declared here").
			Emit()
		return nil
	}

	kind, ok := ParseItemKind(raw.Kind)
	if !ok {
		diag.ReportError(rep, diag.UnitUnknownItemKind, it.Span,
			fmt.Sprintf("item %q has unknown kind %q (want fn, struct or trait)", raw.Name, raw.Kind)).Emit()
		return nil
	}
	it.Kind = kind
	b.seen[raw.Name] = it

	if it.Pure && it.Kind != ItemFn {
		diag.ReportError(rep, diag.UnitPureOnNonFn, it.Span,
			fmt.Sprintf("%s %q cannot be pure", it.Kind, it.Name)).Emit()
	}

	allLocated := true
	for _, k := range spec.Kinds() {
		for i, text := range raw.contracts(k) {
			occ, ok := b.occurrence(it, k, i, text)
			if !ok {
				continue
			}
			allLocated = allLocated && occ.Located
			it.Occurrences = append(it.Occurrences, occ)
		}
	}
	if allLocated {
		// порядок объявления восстанавливается по смещениям в файле
		sort.SliceStable(it.Occurrences, func(i, j int) bool {
			return it.Occurrences[i].Span.Start < it.Occurrences[j].Span.Start
		})
	}

	if it.Trusted && len(it.Occurrences) > 0 {
		diag.ReportWarning(rep, diag.UnitTrustedContracts, it.Span,
			fmt.Sprintf("trusted item %q has contracts; they are desugared but not verified", it.Name)).Emit()
	}
	return it
}

func (b *builder) occurrence(it *Item, kind spec.Kind, idx int, raw string) (Occurrence, bool) {
	text := norm.NFC.String(raw)
	occ := Occurrence{Kind: kind, Index: idx, Text: text}

	if strings.TrimSpace(text) == "" {
		sp := it.Span
		if start, end, ok := b.loc.find(raw); ok {
			sp = b.spanOf(start, end)
		}
		diag.ReportError(b.opts.Reporter, diag.UnitEmptyOccurrence, sp,
			fmt.Sprintf("%s #%d of %q is empty", kind, idx, it.Name)).Emit()
		return occ, false
	}

	if start, end, ok := b.loc.find(text); ok {
		occ.Span = b.spanOf(start, end)
		occ.Located = true
		return occ, true
	}

	name := fmt.Sprintf("%s#%s.%s[%d]", b.file.Path, it.Name, kind, idx)
	id := b.fs.Add(name, []byte(text), source.FileVirtual|source.FileFragment)
	occ.Span = b.spanOf(0, len(text))
	occ.Span.File = id
	diag.ReportInfo(b.opts.Reporter, diag.UnitUnlocatedContract, it.Span,
		fmt.Sprintf("%s #%d of %q is escaped or normalized; positions refer to %s", kind, idx, it.Name, name)).Emit()
	return occ, true
}
