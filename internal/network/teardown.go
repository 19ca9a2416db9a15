package network

import (
	"context"
	"errors"
	"fmt"
)

// Outcome classifies what happened to one layer during teardown.
type Outcome string

const (
	OutcomeDeleted Outcome = "deleted"
	OutcomeAbsent  Outcome = "absent"
	OutcomeFailed  Outcome = "failed"
)

// StepResult records the teardown outcome for one network layer.
type StepResult struct {
	Kind    Kind
	Outcome Outcome
	ID      string
	Err     error
}

// Teardown reports the per-layer outcomes of an EnsureAbsent pass, in the
// order the layers were attempted.
type Teardown struct {
	Steps []StepResult
}

// Failed returns the steps that could not be completed.
func (t *Teardown) Failed() []StepResult {
	var failed []StepResult
	for _, s := range t.Steps {
		if s.Outcome == OutcomeFailed {
			failed = append(failed, s)
		}
	}
	return failed
}

// Clean reports whether every layer ended up deleted or already absent.
func (t *Teardown) Clean() bool {
	return len(t.Failed()) == 0
}

// EnsureAbsent walks the steps in reverse declaration order and deletes every
// resource still carrying the cluster tag. A failure does not stop the walk:
// each layer is attempted and its outcome recorded, so a dependency that
// refuses to go away only strands the layers beneath it. The returned error
// joins all step failures and is nil when the report is clean.
func (t *Template) EnsureAbsent(ctx context.Context) (*Teardown, error) {
	report := &Teardown{}
	var errs []error
	for i := len(t.Steps) - 1; i >= 0; i-- {
		step := t.Steps[i]
		id, err := step.Find(ctx)
		if err != nil {
			err = fmt.Errorf("find %s: %w", step.Kind, err)
			t.log(step.Kind).WithError(err).Warn("Teardown step failed")
			report.Steps = append(report.Steps, StepResult{Kind: step.Kind, Outcome: OutcomeFailed, Err: err})
			errs = append(errs, err)
			continue
		}
		if id == "" {
			report.Steps = append(report.Steps, StepResult{Kind: step.Kind, Outcome: OutcomeAbsent})
			continue
		}
		if err := step.Delete(ctx, id); err != nil {
			err = fmt.Errorf("delete %s %s: %w", step.Kind, id, err)
			t.log(step.Kind).WithError(err).Warn("Teardown step failed")
			report.Steps = append(report.Steps, StepResult{Kind: step.Kind, Outcome: OutcomeFailed, ID: id, Err: err})
			errs = append(errs, err)
			continue
		}
		t.log(step.Kind).WithField("id", id).Info("Deleted resource")
		report.Steps = append(report.Steps, StepResult{Kind: step.Kind, Outcome: OutcomeDeleted, ID: id})
	}
	if len(errs) > 0 {
		return report, errors.Join(errs...)
	}
	return report, nil
}
