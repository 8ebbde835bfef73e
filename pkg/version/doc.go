// Package version holds the kwait build version and source revision, both
// stamped by the linker at release time.
package version
