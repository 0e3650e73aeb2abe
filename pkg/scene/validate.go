package scene

import (
	"fmt"
	"strings"
)

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Shape    string             // which shape has the problem (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Shape == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] shape %s: %s", e.Severity, e.Shape, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Shape   string
	Message string
}

func (w ValidationWarning) String() string {
	if w.Shape == "" {
		return w.Message
	}
	return fmt.Sprintf("shape %s: %s", w.Shape, w.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs the structural checks and returns their findings. An empty
// slice means the scene is well formed. The scene is not modified.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validateSolidTrees(s)...)
	return errs
}

// ValidateAll runs the structural and geometric tiers and the query advisories,
// returning errors and warnings separately.
func ValidateAll(s *Scene) ValidationResult {
	tier1 := Validate(s)
	tier2Errs, tier2Warnings := validateGeometry(s)
	queryWarnings := validateQueries(s)

	var result ValidationResult
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{Shape: e.Shape, Message: e.Message})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	result.Errors = append(result.Errors, tier2Errs...)
	result.Warnings = append(result.Warnings, tier2Warnings...)
	result.Warnings = append(result.Warnings, queryWarnings...)
	return result
}

// validateNames checks that the name index and definition order agree and
// that names are usable as script identifiers.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(s.Order))
	for _, name := range s.Order {
		if seen[name] {
			errs = append(errs, ValidationError{
				Shape:    name,
				Message:  "name appears more than once in definition order",
				Severity: SeverityError,
			})
		}
		seen[name] = true

		if _, ok := s.Shapes[name]; !ok {
			errs = append(errs, ValidationError{
				Shape:    name,
				Message:  "name is ordered but has no shape",
				Severity: SeverityError,
			})
		}
		if strings.ContainsAny(name, " \t\r\n") {
			errs = append(errs, ValidationError{
				Shape:    name,
				Message:  "name contains whitespace",
				Severity: SeverityWarning,
			})
		}
	}
	for name := range s.Shapes {
		if !seen[name] {
			errs = append(errs, ValidationError{
				Shape:    name,
				Message:  "shape is missing from definition order",
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateReferences checks that every name a query used is defined.
func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError
	for i, q := range s.Queries {
		for _, name := range q.Shapes {
			if _, ok := s.Shapes[name]; !ok {
				errs = append(errs, ValidationError{
					Message:  fmt.Sprintf("query %d (%s) references undefined shape %q", i, q.Op, name),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateSolidTrees checks arity and walks each CSG tree with 3-color
// marking. A gray node met again is a cycle.
func validateSolidTrees(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	var errs []ValidationError
	for _, name := range s.ByKind(KindSolid) {
		color := make(map[*SolidShape]int)

		var visit func(n *SolidShape) bool // returns true if a cycle was found
		visit = func(n *SolidShape) bool {
			switch color[n] {
			case black:
				return false
			case gray:
				errs = append(errs, ValidationError{
					Shape:    name,
					Message:  fmt.Sprintf("cycle detected at %s", n),
					Severity: SeverityError,
				})
				return true
			}
			color[n] = gray

			if want := n.Op.Arity(); len(n.Children) != want {
				errs = append(errs, ValidationError{
					Shape:    name,
					Message:  fmt.Sprintf("%s takes %d operands, has %d", n.Op, want, len(n.Children)),
					Severity: SeverityError,
				})
			}
			for _, child := range n.Children {
				if child == nil {
					errs = append(errs, ValidationError{
						Shape:    name,
						Message:  fmt.Sprintf("%s has a nil operand", n.Op),
						Severity: SeverityError,
					})
					continue
				}
				if visit(child) {
					return true
				}
			}

			color[n] = black
			return false
		}

		visit(s.Shapes[name].(*SolidShape))
	}
	return errs
}

// validateQueries flags queries that produced no answer. These are legitimate
// outcomes, so they are only advisory.
func validateQueries(s *Scene) []ValidationWarning {
	var warnings []ValidationWarning
	for i, q := range s.Queries {
		switch {
		case q.Err != "":
			warnings = append(warnings, ValidationWarning{
				Message: fmt.Sprintf("query %d (%s) failed: %s", i, q.Op, q.Err),
			})
		case !q.OK:
			warnings = append(warnings, ValidationWarning{
				Message: fmt.Sprintf("query %d (%s) returned no result", i, q.Op),
			})
		}
	}
	return warnings
}
