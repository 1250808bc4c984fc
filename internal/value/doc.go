// Package value defines the closed set of values an embedded graph engine
// returns in a result row.
//
// Value is a sealed interface: only the types declared in this package
// implement it. Code that needs to tell variants apart implements Visitor,
// so a new variant added here is a compile error at every such site instead
// of a silently ignored default branch.
package value
