package pdf

import (
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Repair strategy names, in the order they are tried.
const (
	StrategyRewrite  = "rewrite"
	StrategyOptimize = "optimize"
)

type repairStrategy struct {
	name string
	run  func(in, out string, conf *model.Configuration) error
}

var repairStrategies = []repairStrategy{
	{name: StrategyRewrite, run: rewrite},
	{name: StrategyOptimize, run: Optimize},
}

// Repair tries each repair strategy in turn until one produces a readable
// document with at least one page, and returns the name of that strategy.
// Validation is always relaxed. When every strategy fails the joined errors
// are returned and out is removed.
func Repair(in, out string, conf *model.Configuration) (string, error) {
	relaxed := *orDefault(conf)
	relaxed.ValidationMode = model.ValidationRelaxed
	conf = &relaxed

	var errs []error
	for _, s := range repairStrategies {
		err := s.run(in, out, conf)
		if err == nil {
			err = verifyReadable(out)
		}
		if err == nil {
			return s.name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		_ = os.Remove(out)
	}
	return "", fmt.Errorf("no repair strategy succeeded: %w", errors.Join(errs...))
}

// rewrite parses the document leniently and serializes it again, which
// rebuilds the cross reference table.
func rewrite(in, out string, conf *model.Configuration) error {
	ctx, err := readContext(in, conf)
	if err != nil {
		return err
	}
	if ctx.PageCount == 0 {
		return ErrNoPages
	}
	return api.WriteContextFile(ctx, out)
}

func verifyReadable(path string) error {
	n, err := PageCount(path)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoPages
	}
	return nil
}
