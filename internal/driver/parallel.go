package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"contractc/internal/project"
	"contractc/internal/unit"
)

// DirResult is the outcome for one unit file of a directory run.
type DirResult struct {
	Path   string
	Result *DesugarResult
	Err    error
}

// listUnitFiles возвращает отсортированный список unit-файлов в директории.
// contractc.toml пропускается: это конфиг, а не единица.
func listUnitFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() == project.ConfigFileName {
			return nil
		}
		if _, ferr := unit.FormatFor(path); ferr == nil {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// DesugarDir desugars every unit under dir. Units are independent, each
// gets its own allocator and registry; opts.Jobs bounds both the number
// of units in flight and the item workers inside each unit.
func DesugarDir(ctx context.Context, dir string, opts Options) ([]DirResult, error) {
	files, err := listUnitFiles(dir)
	if err != nil {
		return nil, err
	}
	results := make([]DirResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// ошибки единицы остаются в её результате и не отменяют соседей
			res, err := DesugarUnit(gctx, path, opts)
			results[i] = DirResult{Path: path, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
