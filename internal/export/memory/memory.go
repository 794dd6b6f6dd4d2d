// Package memory is an in-memory TransactionWriter for tests and local
// development.
package memory

import (
	"context"
	"sync"

	"financas/internal/core"
)

type Writer struct {
	mu      sync.Mutex
	byYear  map[int][]core.Transaction
}

func New() *Writer {
	return &Writer{byYear: make(map[int][]core.Transaction)}
}

func (w *Writer) WriteTransactions(ctx context.Context, year int, txs []core.Transaction) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.byYear[year] = append([]core.Transaction(nil), txs...)
	return nil
}

// Written returns the last full write for a year.
func (w *Writer) Written(year int) []core.Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.byYear[year]
}
