// Package watch provides continuous source monitoring for repeated analysis.
//
// A Watcher registers one or more source directories (recursively) with a
// filesystem notifier and delivers batches of changed files to a callback
// once the changes have settled past a debounce window. Editors typically
// emit several events per save; debouncing per file collapses those bursts
// into a single delivery.
//
// The watch command uses this package to re-run pattern analysis whenever
// the sources it targets change.
package watch
