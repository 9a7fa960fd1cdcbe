package engine

import (
	"fmt"

	"github.com/callmeahab/vessel-tracker-sub000/internal/boundary"
	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

// DiagnosticFunc receives non-fatal diagnostics. A nil func discards them.
type DiagnosticFunc func(models.Diagnostic)

// Classifier runs all violation rules for one vessel sample. Classification
// is a pure function of (sample, boundary index, exemption flag); distinct
// samples can be classified concurrently without coordination.
type Classifier struct {
	thresholds Thresholds
	rules      []Rule
}

// NewClassifier creates a classifier with the given thresholds
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{
		thresholds: th,
		rules:      rules(),
	}
}

// Thresholds returns the thresholds the classifier was built with
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify evaluates every rule against the sample and assembles the result.
// A rule that panics contributes no violation for this sample; the failure
// is surfaced through onDiag and never aborts classification. Exemption is
// informational: violations of exempt vessels are preserved for audit, and
// acting on the flag is left to the consumer.
func (c *Classifier) Classify(sample models.VesselSample, idx *boundary.Index, isExempt bool, onDiag DiagnosticFunc) models.ClassificationResult {
	violations := make([]models.Violation, 0, len(c.rules))

	for _, rule := range c.rules {
		v, err := c.safeEval(rule, sample, idx)
		if err != nil {
			if onDiag != nil {
				onDiag(models.Diagnostic{
					Level:      "error",
					Rule:       rule.Name,
					RegistryID: sample.RegistryID,
					Message:    err.Error(),
				})
			}
			continue
		}
		if v != nil {
			violations = append(violations, *v)
		}
	}

	result := models.ClassificationResult{
		Sample:      sample,
		Violations:  violations,
		MaxSeverity: models.SeverityLow,
		IsExempt:    isExempt,
	}

	for i := range violations {
		if violations[i].Severity.Rank() > result.MaxSeverity.Rank() {
			result.MaxSeverity = violations[i].Severity
		}
	}

	// Primary is the first violation at max severity; earliest match wins ties
	for i := range violations {
		if violations[i].Severity == result.MaxSeverity {
			result.Primary = &violations[i]
			break
		}
	}

	return result
}

// safeEval runs one rule with panic recovery at the classifier boundary
func (c *Classifier) safeEval(rule Rule, sample models.VesselSample, idx *boundary.Index) (v *models.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = fmt.Errorf("rule %s panicked on vessel %s: %v", rule.Name, sample.RegistryID, r)
		}
	}()

	return rule.Eval(sample, idx, c.thresholds), nil
}
