package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateOrder is returned when a transaction with the same order ID already exists.
var ErrDuplicateOrder = errors.New("order already exists")

// ErrStatusConflict is returned when a conditional status write finds the record in a different status than expected.
var ErrStatusConflict = errors.New("transaction status changed concurrently")

// ErrAlreadyCredited is returned when the ledger already holds the credit for an order.
var ErrAlreadyCredited = errors.New("transaction already credited")

// ErrUserNotFound is returned by a credit when the store requires a pre-existing balance record and none exists.
var ErrUserNotFound = errors.New("user balance not found")
