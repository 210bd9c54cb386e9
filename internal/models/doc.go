// Package models defines the core domain models for Billtab.
//
// # Models
//
//   - User: a member of the roster who can create bills and owe shares
//   - Bill: a single amount owed, created by one user and split into Shares
//   - Share: one participant's portion of a Bill, with its own paid state
//
// # Design Principles
//
// 1. **String-keyed references**: Bill.Creator and Share.Username reference
// users by raw username. There is no referential integrity on delete: shares
// belonging to a deleted user remain valid historical records.
//
// 2. **Immutability**: a Bill and its Shares are fixed at creation. The only
// mutation in the system is the one-way unpaid→paid transition on a Share.
//
// 3. **Avoid circular references**: Shares carry the owning bill's ID string
// instead of a pointer back to the Bill.
package models
