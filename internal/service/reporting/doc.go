// Package reporting computes read-only views over the event table: headline
// counts, event listings, daily click series, per-campaign report rates,
// per-department clicks and per-recipient history. It also renders those
// views as CSV and XLSX exports.
//
// Nothing here writes to the database.
package reporting
