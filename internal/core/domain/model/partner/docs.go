// Package partner contains the ShippingPartner aggregate. Partners are owned
// by the partner-management subsystem; the allocation engine reads them to
// filter, score, and select a carrier for an order, and never mutates them.
package partner
