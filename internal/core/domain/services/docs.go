// Package services contains the domain services of the allocation engine:
// eligibility filtering, multi-criteria scoring, load diversification, and
// the partner allocator that composes the three into one selection. All
// services are side-effect free; persistence of the resulting allocation is
// the application layer's concern.
package services
