package spec

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDMode selects how an Allocator derives specification ids.
type IDMode uint8

const (
	// IDsRandom draws version 4 UUIDs.
	IDsRandom IDMode = iota
	// IDsDeterministic derives version 5 UUIDs from the unit namespace and
	// the allocation sequence number, so repeated runs emit the same ids.
	IDsDeterministic
)

func (m IDMode) String() string {
	switch m {
	case IDsRandom:
		return "random"
	case IDsDeterministic:
		return "deterministic"
	default:
		return "unknown"
	}
}

// ParseIDMode accepts "random" and "deterministic".
func ParseIDMode(s string) (IDMode, error) {
	switch s {
	case "", "random":
		return IDsRandom, nil
	case "deterministic":
		return IDsDeterministic, nil
	default:
		return IDsRandom, fmt.Errorf("unknown id mode %q (want random or deterministic)", s)
	}
}

type AllocatorOptions struct {
	Mode IDMode
	// Namespace seeds deterministic ids; usually "<namespace>/<unit>".
	Namespace string
	// Limit caps the number of ids handed out; 0 means no limit.
	Limit uint64
	// Rand replaces crypto/rand for IDsRandom.
	Rand io.Reader
}

// Allocator hands out SpecificationIDs for one compilation unit.
// Next is safe for concurrent use.
type Allocator struct {
	opts AllocatorOptions
	ns   uuid.UUID
	seq  atomic.Uint64
}

func NewAllocator(opts AllocatorOptions) *Allocator {
	return &Allocator{
		opts: opts,
		ns:   uuid.NewSHA1(uuid.NameSpaceOID, []byte(opts.Namespace)),
	}
}

// Next returns a fresh id. Errors wrap ErrIDExhausted or ErrIDSource.
func (a *Allocator) Next() (SpecificationID, error) {
	seq := a.seq.Add(1)
	if a.opts.Limit > 0 && seq > a.opts.Limit {
		return NoSpecificationID, fmt.Errorf("%w: allocator limit %d reached", ErrIDExhausted, a.opts.Limit)
	}
	if seq == math.MaxUint64 {
		return NoSpecificationID, fmt.Errorf("%w: sequence overflow", ErrIDExhausted)
	}

	switch a.opts.Mode {
	case IDsDeterministic:
		return SpecificationID(uuid.NewSHA1(a.ns, []byte(strconv.FormatUint(seq, 10)))), nil
	default:
		var (
			u   uuid.UUID
			err error
		)
		if a.opts.Rand != nil {
			u, err = uuid.NewRandomFromReader(a.opts.Rand)
		} else {
			u, err = uuid.NewRandom()
		}
		if err != nil {
			return NoSpecificationID, fmt.Errorf("%w: %w", ErrIDSource, err)
		}
		return SpecificationID(u), nil
	}
}

// Allocated reports how many ids were requested so far.
func (a *Allocator) Allocated() uint64 {
	return a.seq.Load()
}

// ExprCounter numbers the leaves of a single specification. Not shared
// between goroutines; every specification owns one.
type ExprCounter struct {
	base ExpressionID
	last ExpressionID
}

func NewExprCounter(base ExpressionID) *ExprCounter {
	return &ExprCounter{base: base, last: base}
}

// Next returns base+1, base+2, ...
func (c *ExprCounter) Next() (ExpressionID, error) {
	if c.last == math.MaxUint32 {
		return 0, fmt.Errorf("%w: expression ids above %d", ErrIDExhausted, c.base)
	}
	c.last++
	return c.last, nil
}

// Count is the number of ids handed out.
func (c *ExprCounter) Count() int {
	return int(c.last - c.base)
}
