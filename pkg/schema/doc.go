// Package schema loads declarative transition tables.
//
// A definition names the initial state and lists every transition; effects are
// referenced by name and bound at build time through a registry:
//
//	name: vending
//	initial: waiting-for-money
//	transitions:
//	  - from: waiting-for-money
//	    action: insert-money
//	    to: product-selected
//	    effect: insert-money
//
// Definitions can be written in YAML or JSON. Validation collects every problem
// into an AggregateError instead of stopping at the first one.
package schema
