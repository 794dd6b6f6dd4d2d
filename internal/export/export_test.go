package export

import (
	"context"
	"testing"
	"time"

	"financas/internal/core"
	"financas/internal/export/memory"
	"financas/internal/store"
)

func TestExportYearFiltersAndOrders(t *testing.T) {
	st := store.New(nil)
	st.SetTransactions([]core.Transaction{
		{ID: "t3", Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "t1", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{ID: "t2", Date: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
	})
	writer := memory.New()

	count, err := New(st, writer).ExportYear(context.Background(), 2024)
	if err != nil {
		t.Fatalf("ExportYear() error = %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	written := writer.Written(2024)
	if len(written) != 2 || written[0].ID != "t1" || written[1].ID != "t3" {
		t.Errorf("written = %+v, want t1 then t3", written)
	}
	if len(writer.Written(2023)) != 0 {
		t.Error("entries from another year exported")
	}
}
