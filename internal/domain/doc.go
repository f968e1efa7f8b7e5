// Package domain defines the core domain types shared across the app.
//
// Concept-oriented files (session.go, records.go) hold plain types only - no
// implementation code, no framework imports. The session invariant lives here
// so every consumer checks presence the same way.
package domain
