// Package resource tracks ownership of evaluation results that have
// been handed out as opaque handles.
//
// Results crossing the boundary outlive the call that produced them;
// the caller later releases them explicitly. The Table records every
// outstanding result, validates handles on access, and turns misuse
// (double release, foreign handles, wrong-type release) into reported
// errors instead of memory corruption.
//
// Handle 0 is reserved as the invalid sentinel: it is never issued and
// releasing it is a no-op.
package resource
