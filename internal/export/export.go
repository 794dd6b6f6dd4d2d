// Package export pushes ledger entries from the local snapshot to an
// external destination, one sheet per year.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"financas/internal/core"
	"financas/internal/store"
)

// TransactionWriter is the outbound port; adapters live in subpackages.
type TransactionWriter interface {
	WriteTransactions(ctx context.Context, year int, txs []core.Transaction) error
}

type Exporter struct {
	store  *store.Store
	writer TransactionWriter
}

func New(st *store.Store, writer TransactionWriter) *Exporter {
	return &Exporter{store: st, writer: writer}
}

// ExportYear writes every ledger entry dated in year, ordered by date.
// Returns the number of exported entries.
func (e *Exporter) ExportYear(ctx context.Context, year int) (int, error) {
	var txs []core.Transaction
	for _, tx := range e.store.Transactions() {
		if tx.Date.Year() == year {
			txs = append(txs, tx)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	if err := e.writer.WriteTransactions(ctx, year, txs); err != nil {
		return 0, fmt.Errorf("export year %d: %w", year, err)
	}

	slog.InfoContext(ctx, "Exported ledger entries", "year", year, "count", len(txs))
	return len(txs), nil
}
