package store

import (
	"context"
	"reflect"
	"testing"
)

func TestReadRevisions_Empty(t *testing.T) {
	s := createTestStore(t)

	records, err := s.ReadRevisions(context.Background())
	if err != nil {
		t.Fatalf("ReadRevisions() failed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("ReadRevisions() = %v, want empty non-nil slice", records)
	}
}

func TestReadRevisions_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	want := createTestRevision(0)
	if _, err := s.WriteRevision(ctx, want); err != nil {
		t.Fatalf("WriteRevision() failed: %v", err)
	}

	records, err := s.ReadRevisions(ctx)
	if err != nil {
		t.Fatalf("ReadRevisions() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if !reflect.DeepEqual(records[0], want) {
		t.Errorf("record = %+v\nwant %+v", records[0], want)
	}
}

func TestReadRevisions_Ordered(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, n := range []int64{2, 0, 1} {
		if _, err := s.WriteRevision(ctx, createTestRevision(n)); err != nil {
			t.Fatalf("WriteRevision(%d) failed: %v", n, err)
		}
	}

	records, err := s.ReadRevisions(ctx)
	if err != nil {
		t.Fatalf("ReadRevisions() failed: %v", err)
	}
	for i, rec := range records {
		if rec.Number != int64(i) {
			t.Errorf("records[%d].Number = %d, want %d", i, rec.Number, i)
		}
	}
}

func TestLastRevision(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.LastRevision(ctx); err != nil || ok {
		t.Fatalf("LastRevision() on empty journal = ok=%v err=%v, want ok=false", ok, err)
	}

	for _, n := range []int64{0, 1, 2} {
		if _, err := s.WriteRevision(ctx, createTestRevision(n)); err != nil {
			t.Fatalf("WriteRevision(%d) failed: %v", n, err)
		}
	}

	n, ok, err := s.LastRevision(ctx)
	if err != nil {
		t.Fatalf("LastRevision() failed: %v", err)
	}
	if !ok || n != 2 {
		t.Errorf("LastRevision() = (%d, %v), want (2, true)", n, ok)
	}
}
