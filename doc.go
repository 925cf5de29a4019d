// Package satsnav reconciles a multi-wallet transaction ledger into lots.
//
// It ingests a flat, already normalized sequence of ledger entries (deposits,
// withdrawals, trades, fees, interest and bonus credits) belonging to one
// owner, and answers which lots of each asset each wallet holds at what
// acquisition cost. Every lot keeps the chain of entries it arrived through.
//
// The core functionalities include:
//   - Transaction Grouping: re-pairing single-sided ledger rows into trades
//     and transfers with exact-amount and group-id heuristics.
//   - Lot Tracking: a deterministic batch engine that consumes and creates
//     lots (Refs) per transaction, propagates acquisition rates and corrects
//     rounding dust so that every trade reconciles exactly.
//   - Audit Trail: one BalanceChange per transaction, listing every lot-level
//     effect (create, remove, move, split, join, convert).
//   - History: a day by day projection of the holdings of one asset.
//
// The provenance graph derived from the audit trail lives in the graph
// package. The base asset (EUR by default) is a settlement currency and is
// never lot-tracked.
package satsnav
