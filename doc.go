// Package captable models the capitalization table of a startup and computes
// what it is worth to each holder.
//
// The core functionalities include:
//   - Instruments: securities (common, preferred, convertible notes, options
//     and warrants) with their seniority and terms, and the certificates
//     issued to holders.
//   - Certificate calculus: the outstanding, converted, vested and liquidated
//     shares of each certificate, its preference, and the accrued and
//     discounted value of convertible debt.
//   - Waterfall: the price per share of each seniority tier when the company
//     is sold, honoring preferences, participation and caps.
//   - Proforma: the price per share and the new share counts of a priced
//     round, with note conversions, pro-rata rights and pool expansion.
//   - Persistence: a human-readable JSONL file format, and YAML files of
//     financing scenarios.
//
// A CapTable is the mutable record of the company. Computations run on a
// Snapshot, an immutable copy of the cap table frozen on a given day.
package captable
