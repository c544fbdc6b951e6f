// Package respengine compiles named criteria, rules, and response
// groups into a queryable Engine that picks the single best-matching
// rule for a request and returns one of its responses.
//
// Typical use is as follows:
//
//  1. Build a Compiler, adding Criterion, Rule, and ResponseGroup
//     definitions by name (or let the script package parse them from
//     source text).
//  2. Call Compiler.Finish to resolve every reference and produce an
//     Engine, or a CompileReport describing what's wrong.
//  3. Call Engine.FindBestResponse with the request, character, and
//     world Props for one query.
//
// Engine Ownership
//
// A compiled Engine is not safe for concurrent use. FindBestResponse
// mutates the engine's response dispatchers and the character/world
// Props it is given, so the calling application must serialize calls
// into one Engine itself rather than share it across goroutines. The
// process-wide intern package is the only piece of shared state that
// is safe to touch from multiple goroutines at once.
package respengine
