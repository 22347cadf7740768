/*
Package logistics implements the presence-only attendance classifier.

PURPOSE:
  Logistics uses the rule engine purely as a presence log: any punch at
  all means the employee was present, none means a rest day. No time-of-
  day parsing occurs and no hours are computed.
*/
package logistics

import "github.com/warp/attendance-engine/engine"

// Name identifies this classifier in stored results.
const Name = "logistics"

// Classifier evaluates presence from the raw punch string alone.
type Classifier struct{}

// New returns a logistics classifier.
func New() *Classifier { return &Classifier{} }

// Evaluate reports Present iff the trimmed punch string is non-empty and
// not exactly the bare delimiter, Rest otherwise.
func (c *Classifier) Evaluate(ps engine.PunchSet) engine.Result {
	result := engine.NewResult(ps.EmployeeID, ps.Date, Name)
	if ps.HasAnyPunch() {
		result.Status = engine.StatusPresent
	} else {
		result.Status = engine.StatusRest
	}
	return result
}
