// Package deeplink resolves URLs to routes and decides what to do with them.
//
// # Patterns
//
// A Pattern is compiled once from a slash-delimited template. Each segment
// becomes a token:
//
//	products      literal, must equal the path segment exactly (case-sensitive)
//	:id           parameter, captures the raw segment under "id"
//	*             wildcard, ends matching successfully
//
// Without a wildcard the segment counts must match. A wildcard accepts any
// remaining segments and ignores any tokens after it. Query parameters are
// merged into the captured params and win over path captures of the same name.
//
// # Matcher
//
// A Matcher holds ordered (pattern, handler) mappings. The first mapping
// whose pattern matches and whose handler accepts the params wins. A handler
// may reject a structurally matched URL, in which case matching continues.
//
// # Pipeline
//
// Pipeline.Decide runs ordered checks and stops at the first that applies:
//
//  1. scheme not allowed (when an allowed set is configured)  -> Rejected
//  2. host not allowed (when an allowed set is configured)    -> Rejected
//  3. no route resolved                                       -> Unhandled
//  4. route requires auth and the user is not authenticated   -> Pending
//  5. otherwise                                               -> Plan
//
// Pending is terminal. The pipeline never retries: the caller keeps the
// PendingNav, waits for authentication, then calls Resume to get the plan.
package deeplink
