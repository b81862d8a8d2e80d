// Package database provides SQLite-based storage for run history.
//
// This package implements the HistoryDB, which stores one row per
// mutation-testing round: the round's identity and metrics plus the full
// serialized report for later comparison.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// The counted metrics are denormalized into columns so history listings
// and latest-run lookups never deserialize report_json.
package database
