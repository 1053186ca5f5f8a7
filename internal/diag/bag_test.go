package diag

import (
	"sync"
	"testing"

	"contractc/internal/source"
)

func TestBagLimitAndSeverity(t *testing.T) {
	b := NewBag(2)
	if !b.Add(New(SevWarning, SynInfo, source.Span{}, "w")) {
		t.Fatal("first add rejected")
	}
	if !b.Add(NewError(SynUnexpectedToken, source.Span{}, "e")) {
		t.Fatal("second add rejected")
	}
	if b.Add(NewError(SynUnexpectedToken, source.Span{}, "dropped")) {
		t.Fatal("add beyond limit must fail")
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatal("expected both errors and warnings")
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d", b.Len())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(NewError(SynDanglingImplies, source.Span{File: 1, Start: 5, End: 6}, "late"))
	b.Add(New(SevWarning, UnitTrustedContracts, source.Span{File: 0, Start: 9, End: 9}, "warn"))
	b.Add(NewError(SynDanglingImplies, source.Span{File: 1, Start: 5, End: 6}, "late"))
	b.Add(NewError(SynEmptyContract, source.Span{File: 0, Start: 1, End: 1}, "early"))

	b.Dedup()
	b.Sort()
	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items after dedup, got %d", len(items))
	}
	wantOrder := []string{"early", "warn", "late"}
	for i, msg := range wantOrder {
		if items[i].Message != msg {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Message, msg)
		}
	}
}

func TestBagConcurrentAdd(t *testing.T) {
	b := NewBag(0)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Add(NewError(SynUnexpectedToken, source.Span{}, "x"))
		}()
	}
	wg.Wait()
	if b.Len() != 16 {
		t.Fatalf("Len = %d, want 16", b.Len())
	}
}

func TestReportBuilderAndDedupReporter(t *testing.T) {
	bag := NewBag(10)
	counting := &CountingReporter{Next: NewDedupReporter(BagReporter{Bag: bag})}

	sp := source.Span{File: 0, Start: 1, End: 2}
	for range 2 {
		ReportError(counting, SynDanglingImplies, sp, "dangling").
			WithNote(source.Span{File: 0, Start: 0, End: 1}, "here").
			Emit()
	}
	ReportWarning(counting, UnitTrustedContracts, sp, "trusted").Emit()

	if counting.Errors != 2 {
		t.Errorf("CountingReporter saw %d errors, want 2", counting.Errors)
	}
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected dedup to keep 2 diagnostics, got %d", len(items))
	}
	if len(items[0].Notes) != 1 || items[0].Notes[0].Msg != "here" {
		t.Errorf("note not propagated: %+v", items[0].Notes)
	}

	builder := ReportError(nil, SynEmptyContract, sp, "empty")
	builder.Emit()
	builder.Emit()
	if builder.Diagnostic().Code != SynEmptyContract {
		t.Error("builder lost its diagnostic")
	}
}
