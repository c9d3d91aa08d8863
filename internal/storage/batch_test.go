package storage

import (
	"context"
	"errors"
	"testing"

	"seeder/internal/records"
)

func TestBatcherFlushesAtThreshold(t *testing.T) {
	t.Parallel()

	var sizes []int
	b, err := NewBatcher("test", 3, func(_ context.Context, recs []records.Record) error {
		sizes = append(sizes, len(recs))
		return nil
	})
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 7; i++ {
		if err := b.Add(ctx, records.Record{"i": i}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := b.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []int{3, 3, 1}
	if len(sizes) != len(want) {
		t.Fatalf("flush sizes = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("flush sizes = %v, want %v", sizes, want)
		}
	}
	if b.Flushed() != 7 {
		t.Fatalf("Flushed = %d, want 7", b.Flushed())
	}
}

func TestBatcherEmptyFlushIsNoop(t *testing.T) {
	t.Parallel()

	calls := 0
	b, err := NewBatcher("test", 2, func(context.Context, []records.Record) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}
	if err := b.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if calls != 0 {
		t.Fatalf("flush calls = %d, want 0", calls)
	}
}

func TestBatcherPropagatesFlushError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("insert failed")
	b, err := NewBatcher("test", 1, func(context.Context, []records.Record) error {
		return wantErr
	})
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}
	if err := b.Add(context.Background(), records.Record{}); !errors.Is(err, wantErr) {
		t.Fatalf("Add err = %v, want %v", err, wantErr)
	}
	if b.Flushed() != 0 {
		t.Fatalf("Flushed = %d, want 0 after failed flush", b.Flushed())
	}
}

func TestBatcherRejectsBadConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewBatcher("test", 0, func(context.Context, []records.Record) error { return nil }); err == nil {
		t.Fatal("want error for size 0")
	}
	if _, err := NewBatcher("test", 1, nil); err == nil {
		t.Fatal("want error for nil flush fn")
	}
}

func TestOpenUnknownKind(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{Kind: "oracle"}); err == nil {
		t.Fatal("want error for unregistered backend kind")
	}
}
