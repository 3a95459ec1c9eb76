package sgsolve

import (
	"fmt"
	"math"
	"runtime"

	"github.com/pkg/errors"
)

// IterationStorage selects which iterations are kept in the trace.
type IterationStorage uint8

const (
	// StoreNone keeps no iteration records.
	StoreNone IterationStorage = iota
	// StoreAll keeps every iteration.
	StoreAll
	// StoreLastRevolution keeps only the iterations of the most recent
	// revolution of the direction.
	StoreLastRevolution
)

var iterationStorageStr = [...]string{
	"none",
	"all",
	"last",
}

func (s IterationStorage) String() string {
	if int(s) < len(iterationStorageStr) {
		return iterationStorageStr[s]
	}

	return fmt.Sprintf("IterationStorage(%d)", s)
}

// ParseIterationStorage parses the String form of an IterationStorage.
func ParseIterationStorage(s string) (IterationStorage, error) {
	for i, name := range iterationStorageStr {
		if name == s {
			return IterationStorage(i), nil
		}
	}

	return 0, errors.Wrapf(ErrInvalidEnv, "unknown iteration storage %q", s)
}

// Env holds the parameters of the algorithm.
type Env struct {
	// Tolerance is used for every numerical comparison, and the solve has
	// converged when no cut in a full revolution moves the boundary by
	// more than Tolerance.
	Tolerance float64
	// MaxIterations caps the number of iterations.
	MaxIterations int
	// StoreIterations controls trace retention.
	StoreIterations IterationStorage
	// StoreActions keeps per-action records in each stored iteration.
	StoreActions bool
	// Workers bounds the number of concurrent action evaluations.
	Workers int
}

// DefaultEnv returns the default parameters.
func DefaultEnv() Env {
	return Env{
		Tolerance:       1e-6,
		MaxIterations:   100000,
		StoreIterations: StoreLastRevolution,
		StoreActions:    false,
		Workers:         runtime.NumCPU(),
	}
}

// Validate checks that the parameters are usable.
func (env Env) Validate() error {
	if !(env.Tolerance > 0) || math.IsInf(env.Tolerance, 0) {
		return errors.Wrapf(ErrInvalidEnv, "tolerance %v must be positive", env.Tolerance)
	}
	if env.MaxIterations <= 0 {
		return errors.Wrapf(ErrInvalidEnv, "max iterations %d must be positive", env.MaxIterations)
	}
	if env.StoreIterations > StoreLastRevolution {
		return errors.Wrapf(ErrInvalidEnv, "unknown iteration storage %v", env.StoreIterations)
	}
	if env.Workers < 0 {
		return errors.Wrapf(ErrInvalidEnv, "workers %d must not be negative", env.Workers)
	}

	return nil
}

func (env Env) workers() int {
	if env.Workers <= 0 {
		return runtime.NumCPU()
	}

	return env.Workers
}
