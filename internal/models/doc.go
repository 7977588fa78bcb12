// Package models defines the core domain records for PayRecord.
//
// # Records
//
//   - Group: a named set of members sharing expenses under one currency
//   - Expense: an amount paid by one member and divided by a split rule
//   - Settlement: a recorded settle-up payment between two members
//   - User: the signed-in person (name only)
//
// Members are identified by name strings, unique within their group.
// Records reference each other by ID strings, never by pointer.
//
// Balances and settlement plans are not stored; they are derived from the
// expense and settlement lists on every request (see package calculator).
package models
