// Package budget implements labeling-budget admission control shared by the
// decision engines: a rolling allowance expressed as a fraction of processed
// instances.
package budget

import (
	"github.com/XiaoConstantine/streamal-go/pkg/config"
)

// Controller tracks spend against a rolling allowance. Budget exhaustion is
// never an error; a denied admission means the caller skips the instance.
//
// The caller is responsible for calling Observe once per instance seen and
// Spend only when a label is actually requested.
type Controller struct {
	cfg config.BudgetConfig

	spent     float64
	processed int
}

// NewController creates an admission controller for the given budget
// configuration.
func NewController(cfg config.BudgetConfig) *Controller {
	return &Controller{cfg: cfg}
}

// Observe records one processed instance.
func (c *Controller) Observe() {
	c.processed++
}

// Admit reports whether one more label request fits the budget.
//
// With enforcement disabled it always admits. When the reset period has
// elapsed, spend and the processed count are zeroed and the request is
// admitted: a full reset always admits. Otherwise the request is admitted iff
// the pending cost still fits under the limit. Apart from the reset branch an
// admission check has no side effects.
func (c *Controller) Admit() bool {
	if !c.cfg.Enforce {
		return true
	}

	if c.cfg.ResetPeriod > 0 && c.processed >= c.cfg.ResetPeriod {
		c.processed = 0
		c.spent = 0
		return true
	}

	return c.spent+c.cfg.Cost <= c.cfg.Limit
}

// Spend charges the cost of one label request.
func (c *Controller) Spend() {
	c.spent += c.cfg.Cost
}

// ResetSpend zeroes accumulated spend without touching the processed count.
// The ensemble engine calls this at every window closeout; its budget is a
// per-window allowance.
func (c *Controller) ResetSpend() {
	c.spent = 0
}

// Reset zeroes all rolling state.
func (c *Controller) Reset() {
	c.spent = 0
	c.processed = 0
}

// Spent returns the accumulated cost in the current period.
func (c *Controller) Spent() float64 {
	return c.spent
}

// Processed returns the instances seen since the last reset.
func (c *Controller) Processed() int {
	return c.processed
}

// Enforced reports whether budget enforcement is enabled.
func (c *Controller) Enforced() bool {
	return c.cfg.Enforce
}
