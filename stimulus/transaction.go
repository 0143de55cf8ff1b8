// Package stimulus holds the pre-recorded tables that drive a run: the test
// configuration and the ordered transaction table. Tables are loaded once
// before the tick loop and are read-only afterwards.
package stimulus

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when a table is accessed past its end.
	ErrIndexOutOfRange = errors.New("stimulus: index out of range")

	// ErrMalformedRow is returned when a row does not have the expected
	// number of fields or a field is not hexadecimal.
	ErrMalformedRow = errors.New("stimulus: malformed row")

	// ErrLayoutMismatch is returned when tables do not agree with the layout
	// they are read with.
	ErrLayoutMismatch = errors.New("stimulus: layout mismatch")
)

// WaitCode is the per-transaction directive that pauses issuance.
type WaitCode uint64

// Wait codes found in transaction tables. Any other value has no wait effect.
const (
	WaitNone      WaitCode = 0
	WaitForDevice WaitCode = 1
	WaitForOther  WaitCode = 2
)

func (w WaitCode) String() string {
	switch w {
	case WaitNone:
		return "none"
	case WaitForDevice:
		return "device"
	case WaitForOther:
		return "other"
	default:
		return fmt.Sprintf("unknown(%d)", uint64(w))
	}
}

// A Transaction is one row of the transaction table.
type Transaction struct {
	DataIn           uint64
	Address          uint64
	WriteEnable      bool
	ReadEnable       bool
	Wait             WaitCode
	ExpectedReadData uint64
	CheckFlag        bool
}

func (t Transaction) String() string {
	kind := "nop"
	switch {
	case t.WriteEnable:
		kind = "write"
	case t.ReadEnable:
		kind = "read"
	}

	return fmt.Sprintf("%s addr=0x%X data=0x%X wait=%s check=%t",
		kind, t.Address, t.DataIn, t.Wait, t.CheckFlag)
}

// Table is the ordered, immutable transaction table.
type Table struct {
	rows []Transaction
}

// NewTable creates a table owning a copy of rows.
func NewTable(rows []Transaction) *Table {
	owned := make([]Transaction, len(rows))
	copy(owned, rows)

	return &Table{rows: owned}
}

// Len returns the number of transactions.
func (t *Table) Len() int {
	return len(t.rows)
}

// At returns the transaction at index i.
func (t *Table) At(i int) (Transaction, error) {
	if i < 0 || i >= len(t.rows) {
		return Transaction{}, fmt.Errorf("%w: transaction %d of %d",
			ErrIndexOutOfRange, i, len(t.rows))
	}

	return t.rows[i], nil
}

// Cursor walks a table strictly in order.
type Cursor struct {
	table *Table
	index int
}

// NewCursor creates a cursor at the first transaction of the table.
func NewCursor(table *Table) *Cursor {
	return &Cursor{table: table}
}

// Index returns the position of the cursor.
func (c *Cursor) Index() int {
	return c.index
}

// Exhausted reports whether every transaction has been consumed.
func (c *Cursor) Exhausted() bool {
	return c.index >= c.table.Len()
}

// Current returns the transaction under the cursor. The second return value
// is false once the cursor is exhausted.
func (c *Cursor) Current() (Transaction, bool) {
	if c.Exhausted() {
		return Transaction{}, false
	}

	return c.table.rows[c.index], true
}

// Advance moves the cursor to the next transaction. Advancing an exhausted
// cursor is a no-op.
func (c *Cursor) Advance() {
	if c.Exhausted() {
		return
	}

	c.index++
}
