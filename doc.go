// Package sym implements arithmetic over symbolic integers and floats
// whose leaves are problem sizes with unknown but bounded values.
//
// Every expression knows a sound interval for its value: for every
// admissible value of its atoms, MinValue() <= value <= MaxValue().
// Integer ratios are exact, so divisibility can be proven without knowing
// the value of any atom. Reductions (lcm, min, max) keep a minimal set of
// operands, dropping those that are dominated by another operand.
//
// Expressions are immutable. They can be shared between goroutines once
// built, but the package makes no attempt at deduplicating equal
// expressions across goroutines.
//
// Operations that have no sound result, such as converting an lcm to a
// float, panic. They indicate a bug in the caller.
package sym
