// Package order contains the CODOrder aggregate and its lifecycle state
// machine. An order advances through a fixed set of fulfillment stages; its
// status is derived from the current stage, except for cancellation, which is
// an explicit absorbing action. Each visited stage carries a stage-specific
// payload variant, validated on write and never merged across stages.
package order
