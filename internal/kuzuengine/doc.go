// Package kuzuengine binds the engine contract to the embedded Kuzu engine
// through github.com/kuzudb/go-kuzu.
//
// Native values returned by the driver are converted into value.Value:
// kuzu.Node, kuzu.Relationship and kuzu.InternalID map to their dedicated
// variants, primitive Go types map to scalars, and everything else (lists,
// maps, dates, nulls, unsigned and big integers) is wrapped in value.Other.
// Node and relationship properties arrive as Go maps and are sorted by key
// so that repeated queries render identically.
package kuzuengine
