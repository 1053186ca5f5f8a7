// Package prof wraps the runtime profilers behind one session so the CLI
// can start them before a run and flush them after it.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	rtrace "runtime/trace"
	"sync"
)

// Paths selects the profiles to record; empty paths are skipped.
type Paths struct {
	CPU   string
	Mem   string
	Trace string
}

func (p Paths) Empty() bool { return p.CPU == "" && p.Mem == "" && p.Trace == "" }

// Session holds the open profile files. Stop is idempotent.
type Session struct {
	paths     Paths
	cpuFile   *os.File
	traceFile *os.File
	once      sync.Once
	stopErr   error
}

// Start enables CPU profiling and runtime tracing as requested. On failure
// everything already started is stopped again.
func Start(paths Paths) (*Session, error) {
	s := &Session{paths: paths}
	if paths.CPU != "" {
		f, err := os.Create(paths.CPU)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return nil, errors.Join(fmt.Errorf("cpu profile: %w", err), f.Close())
		}
		s.cpuFile = f
	}
	if paths.Trace != "" {
		f, err := os.Create(paths.Trace)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("runtime trace: %w", err), s.stopCPU())
		}
		if err := rtrace.Start(f); err != nil {
			return nil, errors.Join(fmt.Errorf("runtime trace: %w", err), f.Close(), s.stopCPU())
		}
		s.traceFile = f
	}
	return s, nil
}

// Stop ends tracing and CPU profiling, then writes the heap profile.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		s.stopErr = errors.Join(s.stopTrace(), s.stopCPU(), s.writeMem())
	})
	return s.stopErr
}

func (s *Session) stopCPU() error {
	if s.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := s.cpuFile.Close()
	s.cpuFile = nil
	return err
}

func (s *Session) stopTrace() error {
	if s.traceFile == nil {
		return nil
	}
	rtrace.Stop()
	err := s.traceFile.Close()
	s.traceFile = nil
	return err
}

func (s *Session) writeMem() (err error) {
	if s.paths.Mem == "" {
		return nil
	}
	f, err := os.Create(s.paths.Mem)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	return nil
}
