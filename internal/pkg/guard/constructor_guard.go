// Package guard provides a defensive construction pattern for commands, queries,
// and value objects. Embedding a ConstructorGuard in a struct makes it possible
// to detect whether the struct was built through its designated constructor or
// created as a zero value, which would bypass validation.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when a nil validation error
// is supplied. Validation always fails with a meaningful message even if the
// caller did not provide a specific error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard tracks whether its owner was created through a constructor
// function. The zero value is "not constructed" and fails validation.
//
// Example:
//
//	type AllocatePartnerCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func NewAllocatePartnerCommand(orderID kernel.UUID) (AllocatePartnerCommand, error) {
//	    if err := orderID.Validate(); err != nil {
//	        return AllocatePartnerCommand{}, err
//	    }
//	    return AllocatePartnerCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks an object as properly constructed. Call this in the
// constructor of the owning type.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the owner was built through its constructor,
// the supplied validationError otherwise. A nil validationError falls back
// to ErrDefaultConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
