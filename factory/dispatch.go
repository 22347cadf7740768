/*
Package factory selects the processing strategy per employee/department.

PURPOSE:
  Three classifiers exist; which one applies is a property of the
  employee's department. The dispatcher owns that routing so the batch
  runner and the API never reason about departments themselves.

ROUTING:
  "production" -> production morning-shift classifier (fixed windows)
  "logistics"  -> logistics presence classifier
  anything else -> standard two-punch classifier with the configured rules

  Office departments are routed generically to the standard classifier;
  an unknown department is not an error.
*/
package factory

import (
	"strings"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/logistics"
	"github.com/warp/attendance-engine/production"
	"github.com/warp/attendance-engine/standard"
)

// Department names with dedicated classifiers.
const (
	DepartmentProduction = "production"
	DepartmentLogistics  = "logistics"
)

// Dispatcher routes a punch set to its department's classifier.
type Dispatcher struct {
	standard   *standard.Classifier
	production *production.Classifier
	logistics  *logistics.Classifier
}

// NewDispatcher builds a dispatcher over the three classifiers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		standard:   standard.New(),
		production: production.New(),
		logistics:  logistics.New(),
	}
}

// Evaluate classifies one punch set with the classifier its department
// uses. rules only applies to the standard classifier; the production and
// logistics policies are fixed.
func (d *Dispatcher) Evaluate(rules *engine.RuleSet, ps engine.PunchSet) engine.Result {
	switch strings.ToLower(strings.TrimSpace(ps.Department)) {
	case DepartmentProduction:
		return d.production.Evaluate(ps)
	case DepartmentLogistics:
		return d.logistics.Evaluate(ps)
	default:
		return d.standard.Evaluate(rules, ps)
	}
}
