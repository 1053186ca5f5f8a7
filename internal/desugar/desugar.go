package desugar

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"contractc/internal/ast"
	"contractc/internal/diag"
	"contractc/internal/parser"
	"contractc/internal/source"
	"contractc/internal/spec"
	"contractc/internal/trace"
	"contractc/internal/unit"
)

// ErrRejected marks an occurrence dropped because it did not parse.
var ErrRejected = errors.New("contract occurrence rejected")

// Desugarer turns occurrences into specifications. One instance serves a
// whole unit; Item may be called from several goroutines for distinct
// items since the allocator and registry are concurrency-safe.
type Desugarer struct {
	fs    *source.FileSet
	alloc *spec.Allocator
	reg   *spec.Registry
	opts  Options
}

func New(fs *source.FileSet, alloc *spec.Allocator, reg *spec.Registry, opts Options) *Desugarer {
	return &Desugarer{
		fs:    fs,
		alloc: alloc,
		reg:   reg,
		opts:  opts.withDefaults(),
	}
}

func (d *Desugarer) Registry() *spec.Registry { return d.reg }

// ItemResult is the outcome for one annotated item.
type ItemResult struct {
	Item *unit.Item
	// Specs holds one entry per successful occurrence, in declaration order.
	Specs []*spec.Specification
	// Markers are the item's own markers followed by its back-references.
	Markers  spec.Markers
	Rejected int
}

// BackRefs returns the item's specification ids in declaration order.
func (r *ItemResult) BackRefs() []spec.SpecificationID {
	out := make([]spec.SpecificationID, len(r.Specs))
	for i, s := range r.Specs {
		out[i] = s.ID
	}
	return out
}

// Item desugars the occurrences of it sequentially. A rejected occurrence
// is counted and skipped; any other error aborts and is returned. The
// item's specifications reach the registry only once every occurrence
// has been handled.
func (d *Desugarer) Item(ctx context.Context, it *unit.Item) (*ItemResult, error) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeItem, "item:"+it.Name, trace.ParentSpan(ctx))
	ctx = trace.WithParent(ctx, span)

	res := &ItemResult{Item: it}
	if it.Pure {
		res.Markers = append(res.Markers, spec.Flag(spec.MarkerPure))
	}
	if it.Trusted {
		res.Markers = append(res.Markers, spec.Flag(spec.MarkerTrusted))
	}

	for _, occ := range it.Occurrences {
		if err := ctx.Err(); err != nil {
			span.End("cancelled")
			return nil, err
		}
		s, err := d.occurrence(ctx, it.Name, occ)
		if errors.Is(err, ErrRejected) {
			res.Rejected++
			continue
		}
		if err != nil {
			span.End(err.Error())
			return nil, err
		}
		res.Specs = append(res.Specs, s)
		res.Markers = append(res.Markers, spec.Marker{Name: spec.RefMarker(s.Kind), Value: s.ID.String()})
	}
	if err := d.register(res.Specs...); err != nil {
		span.End("inconsistent")
		return nil, err
	}

	span.WithExtra("specs", strconv.Itoa(len(res.Specs))).
		WithExtra("rejected", strconv.Itoa(res.Rejected)).
		End("")
	return res, nil
}

// Occurrence parses, desugars and registers one occurrence of item. Parse
// failures return an error wrapping ErrRejected; allocation and
// consistency failures are reported as internal diagnostics and returned
// as is.
func (d *Desugarer) Occurrence(ctx context.Context, item string, occ unit.Occurrence) (*spec.Specification, error) {
	s, err := d.occurrence(ctx, item, occ)
	if err != nil {
		return nil, err
	}
	if err := d.register(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (d *Desugarer) register(specs ...*spec.Specification) error {
	if d.reg == nil || len(specs) == 0 {
		return nil
	}
	if err := d.reg.Add(specs...); err != nil {
		diag.ReportError(d.opts.Reporter, diag.IntConsistency, specs[0].Span, err.Error()).Emit()
		return err
	}
	return nil
}

func (d *Desugarer) occurrence(ctx context.Context, item string, occ unit.Occurrence) (*spec.Specification, error) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeNode, fmt.Sprintf("%s#%d", occ.Kind, occ.Index), trace.ParentSpan(ctx))

	builder := ast.NewBuilder(ast.Hints{})
	parsed := parser.ParseSpan(d.fs, occ.Span, builder, parser.Options{
		Reporter:  d.opts.Reporter,
		MaxErrors: d.opts.MaxErrors,
		Guarded:   occ.Kind.Guarded(),
	})
	if !parsed.Ok() {
		span.End("rejected")
		return nil, fmt.Errorf("%w: %s #%d of %q", ErrRejected, occ.Kind, occ.Index, item)
	}

	id, err := d.alloc.Next()
	if err != nil {
		diag.ReportError(d.opts.Reporter, diag.IntIDAllocation, occ.Span,
			fmt.Sprintf("cannot allocate specification id: %v", err)).Emit()
		span.End("id allocation failed")
		return nil, fmt.Errorf("desugar %s #%d of %q: %w", occ.Kind, occ.Index, item, err)
	}

	s, err := d.assemble(builder.Exprs, parsed.Root, id, item, occ)
	if err != nil {
		diag.ReportError(d.opts.Reporter, diag.IntDesugarFailure, occ.Span, err.Error()).Emit()
		span.End("failed")
		return nil, err
	}

	if d.opts.CheckConsistency {
		if err := spec.Verify(s); err != nil {
			diag.ReportError(d.opts.Reporter, diag.IntConsistency, occ.Span, err.Error()).Emit()
			span.End("inconsistent")
			return nil, err
		}
	}
	span.WithExtra("spec_id", id.String()).
		WithExtra("leaves", strconv.Itoa(len(s.Holder.Body))).
		End("")
	return s, nil
}

func (d *Desugarer) assemble(exprs *ast.Exprs, root ast.ExprID, id spec.SpecificationID, item string, occ unit.Occurrence) (*spec.Specification, error) {
	tb := newTreeBuilder(exprs, id, d.opts.ExprBase)
	assertion, err := tb.build(root)
	if err != nil {
		return nil, err
	}
	encoded, err := spec.EncodeAssertion(assertion)
	if err != nil {
		return nil, fmt.Errorf("encode assertion: %w", err)
	}

	holder := &spec.HolderItem{
		Name: spec.HolderName(d.opts.Namespace, occ.Kind, item, id),
		Markers: spec.Markers{
			spec.Flag(spec.MarkerSpecOnly),
			{Name: spec.MarkerSpecID, Value: id.String()},
			{Name: spec.MarkerAssertion, Value: encoded},
		},
		Body: tb.body,
	}
	return &spec.Specification{
		ID:        id,
		Kind:      occ.Kind,
		Item:      item,
		Index:     occ.Index,
		Span:      occ.Span,
		Assertion: assertion,
		Holder:    holder,
	}, nil
}
