// Package nav provides the navigation types shared by every navkit package.
//
// This package contains type definitions only. The engine, store, and
// deeplink packages import nav; nav imports nothing internal.
//
// Key design constraints:
//   - Routes are application-defined values constrained by comparable.
//     Each navigation domain supplies its own closed route variant.
//   - Command and Result are sealed: only the variants declared here
//     implement them, so type switches over them stay exhaustive.
//   - A Stack is a value. Nothing in navkit mutates a Path slice in place;
//     every transition allocates a new one.
package nav
