package driver

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"contractc/internal/desugar"
	"contractc/internal/diag"
	"contractc/internal/emit"
	"contractc/internal/observ"
	"contractc/internal/source"
	"contractc/internal/spec"
	"contractc/internal/unit"
)

// DesugarResult is everything one run produced. Items follows the unit's
// item order regardless of how many workers ran.
type DesugarResult struct {
	FileSet  *source.FileSet
	Unit     *unit.Unit
	Bag      *diag.Bag
	Items    []*desugar.ItemResult
	Registry *spec.Registry
	Timer    *observ.Timer
}

// HasErrors gates emission: any error diagnostic suppresses output.
func (r *DesugarResult) HasErrors() bool {
	return r == nil || r.Bag.HasErrors()
}

func (r *DesugarResult) Bundle() *emit.Bundle {
	return emit.NewBundle(r.Unit, r.Items)
}

// DesugarUnit loads the unit file at path and desugars every item.
// A non-nil error means the run aborted (I/O, malformed unit, id
// allocation); the partial result still carries the diagnostics.
func DesugarUnit(ctx context.Context, path string, opts Options) (*DesugarResult, error) {
	fs := source.NewFileSet()
	return run(ctx, fs, opts, func(rep diag.Reporter) (*unit.Unit, error) {
		return unit.Load(fs, path, unit.Options{Reporter: rep})
	})
}

// DesugarBytes is DesugarUnit over in-memory content.
func DesugarBytes(ctx context.Context, name string, content []byte, format unit.Format, opts Options) (*DesugarResult, error) {
	fs := source.NewFileSet()
	return run(ctx, fs, opts, func(rep diag.Reporter) (*unit.Unit, error) {
		return unit.LoadBytes(fs, name, content, format, unit.Options{Reporter: rep})
	})
}

func run(ctx context.Context, fs *source.FileSet, opts Options, load func(diag.Reporter) (*unit.Unit, error)) (*DesugarResult, error) {
	res := &DesugarResult{
		FileSet:  fs,
		Bag:      diag.NewBag(opts.MaxDiagnostics),
		Registry: spec.NewRegistry(),
	}
	if opts.EnableTimings {
		res.Timer = observ.NewTimer()
	}
	rep := diag.NewDedupReporter(&diag.BagReporter{Bag: res.Bag})
	ph := &phases{ctx: ctx, timer: res.Timer, observer: opts.Observer}

	loadPhase := ph.begin("load")
	u, err := load(rep)
	if err != nil {
		loadPhase.end(err.Error())
		return res, err
	}
	res.Unit = u
	loadPhase.end(fmt.Sprintf("items=%d occurrences=%d", len(u.Items), u.Occurrences()))

	desugarPhase := ph.begin("desugar")
	namespace := opts.Namespace
	if namespace == "" {
		namespace = desugar.DefaultNamespace
	}
	alloc := spec.NewAllocator(spec.AllocatorOptions{
		Mode:      opts.IDMode,
		Namespace: namespace + "/" + u.Name,
	})
	d := desugar.New(fs, alloc, res.Registry, desugar.Options{
		Namespace:        namespace,
		ExprBase:         opts.ExprBase,
		CheckConsistency: opts.CheckConsistency,
		Reporter:         rep,
	})
	items, err := desugarItems(desugarPhase.context(), d, u.Items, opts.jobs(len(u.Items)))
	res.Items = items
	if err != nil {
		desugarPhase.end(err.Error())
		res.finish(opts)
		return res, err
	}
	desugarPhase.end("specs=" + strconv.Itoa(res.Registry.Len()))

	if opts.CheckConsistency {
		verifyPhase := ph.begin("verify")
		if err := spec.VerifyDistinct(res.Registry.All()); err != nil {
			diag.ReportError(rep, diag.IntConsistency, source.Span{File: u.File}, err.Error()).Emit()
		}
		verifyPhase.end("")
	}

	res.finish(opts)
	return res, nil
}

// desugarItems fans items out over jobs workers. Each worker writes only
// its own slot, so results keep declaration order.
func desugarItems(ctx context.Context, d *desugar.Desugarer, items []*unit.Item, jobs int) ([]*desugar.ItemResult, error) {
	results := make([]*desugar.ItemResult, len(items))
	if len(items) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, it := range items {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			r, err := d.Item(gctx, it)
			if err != nil {
				return fmt.Errorf("item %q: %w", it.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return compact(results), err
	}
	return results, nil
}

func compact(results []*desugar.ItemResult) []*desugar.ItemResult {
	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (r *DesugarResult) finish(opts Options) {
	if r.Timer != nil && opts.EnableTimings {
		report := r.Timer.Report()
		var span source.Span
		path := ""
		if r.Unit != nil {
			span = source.Span{File: r.Unit.File}
			path = r.Unit.Path
		}
		appendTimingDiagnostic(r.Bag, span, timingPayload{
			Path:    path,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}
	r.Bag.Sort()
}
