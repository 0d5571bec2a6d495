// Package models defines the core domain entities for FairSplit.
//
// # Entities
//
//   - User: a registered account with a running net balance
//   - Group: a set of users who share expenses
//   - Expense: a shared cost paid by one user on behalf of a group
//   - Request: a single debtor's obligation derived from an Expense
//   - Payment: a recorded transfer that settles a Request (or stands
//     alone) and moves both parties' balances
//
// # Design Principles
//
//  1. **ID references, not object graphs**: entities hold UUID strings for
//     their relationships (PayerID, GroupID, ...) instead of pointers, so
//     there are no circular references and rows map 1:1 to structs.
//  2. **Balances move through payments**: User.Balance is only written by
//     the settlement write paths and the explicit balance endpoints;
//     nothing else touches it.
//  3. **Snapshots over live links**: an Expense's assigned users are
//     copied at creation time; later group membership changes do not
//     retroactively alter the split.
package models
