package fuzztests

import (
	"context"
	"testing"

	"contractc/internal/driver"
	"contractc/internal/spec"
	"contractc/internal/unit"
)

// FuzzDesugarUnit feeds arbitrary TOML through the whole pass. Whatever the
// input, accepted occurrences must satisfy the id and back-reference checks.
func FuzzDesugarUnit(f *testing.F) {
	addUnitSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		res, err := driver.DesugarBytes(context.Background(), "fuzz.toml", input, unit.FormatTOML, driver.Options{
			MaxDiagnostics:   64,
			IDMode:           spec.IDsDeterministic,
			CheckConsistency: true,
		})
		if err != nil {
			return
		}
		for _, it := range res.Items {
			for _, s := range it.Specs {
				if verr := spec.Verify(s); verr != nil {
					t.Fatalf("item %s: %v", it.Item.Name, verr)
				}
			}
		}
		if verr := spec.VerifyDistinct(res.Registry.All()); verr != nil {
			t.Fatalf("registry: %v", verr)
		}
	})
}
