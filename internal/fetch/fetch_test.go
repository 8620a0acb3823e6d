package fetch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credit360-dev/credit360/internal/model"
	"github.com/credit360-dev/credit360/internal/sheet"
)

func ref(s, c string) model.CellRef {
	return model.CellRef{Sheet: s, Cell: c}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSnapshot_CachesWithinTTL(t *testing.T) {
	var calls atomic.Int32
	src := SourceFunc(func(context.Context) (map[model.CellRef]decimal.Decimal, error) {
		calls.Add(1)
		return map[model.CellRef]decimal.Decimal{ref("bs", "C2"): dec("100")}, nil
	})

	svc := NewService(src, time.Hour)

	for i := 0; i < 3; i++ {
		snap, err := svc.Snapshot(context.Background())
		require.NoError(t, err)
		assert.False(t, snap.Stale)
		assert.True(t, snap.Values[ref("bs", "C2")].Equal(dec("100")))
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestSnapshot_RefreshAfterTTL(t *testing.T) {
	var calls atomic.Int32
	src := SourceFunc(func(context.Context) (map[model.CellRef]decimal.Decimal, error) {
		calls.Add(1)
		return map[model.CellRef]decimal.Decimal{}, nil
	})

	svc := NewService(src, time.Minute)
	now := time.Now()
	svc.now = func() time.Time { return now }

	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSnapshot_StaleFallback(t *testing.T) {
	var fail atomic.Bool
	src := SourceFunc(func(context.Context) (map[model.CellRef]decimal.Decimal, error) {
		if fail.Load() {
			return nil, fmt.Errorf("upstream unavailable")
		}
		return map[model.CellRef]decimal.Decimal{ref("bs", "C2"): dec("42")}, nil
	})

	svc := NewService(src, time.Minute)
	now := time.Now()
	svc.now = func() time.Time { return now }

	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	fail.Store(true)
	now = now.Add(2 * time.Minute)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err, "staleness is a warning, not an error")
	assert.True(t, snap.Stale)
	assert.Contains(t, snap.Warning, "refresh failed")
	assert.True(t, snap.Values[ref("bs", "C2")].Equal(dec("42")))
}

func TestSnapshot_ErrorWithoutCache(t *testing.T) {
	src := SourceFunc(func(context.Context) (map[model.CellRef]decimal.Decimal, error) {
		return nil, fmt.Errorf("upstream unavailable")
	})

	svc := NewService(src, time.Minute)
	_, err := svc.Snapshot(context.Background())
	assert.ErrorContains(t, err, "upstream unavailable")
}

func TestSnapshot_ConcurrentRefreshCollapses(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	src := SourceFunc(func(context.Context) (map[model.CellRef]decimal.Decimal, error) {
		calls.Add(1)
		<-release
		return map[model.CellRef]decimal.Decimal{}, nil
	})

	svc := NewService(src, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Snapshot(context.Background())
			assert.NoError(t, err)
		}()
	}
	// Give the goroutines time to pile onto the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestApply(t *testing.T) {
	src := SourceFunc(func(context.Context) (map[model.CellRef]decimal.Decimal, error) {
		return map[model.CellRef]decimal.Decimal{
			ref("bs", "C4"): dec("25000000"),
			ref("bs", "C5"): dec("5000000"),
		}, nil
	})

	book := sheet.NewBook()
	terms, err := sheet.ParseFormula("C4 + C5", "bs")
	require.NoError(t, err)
	require.NoError(t, book.DefineSheet(sheet.Schema{
		Name: "bs",
		Cells: []sheet.CellDef{
			{ID: "C4"}, {ID: "C5"},
			{ID: "C3", Formula: terms},
		},
	}))

	svc := NewService(src, time.Minute)
	snap, err := svc.Apply(context.Background(), book)
	require.NoError(t, err)
	assert.False(t, snap.Stale)

	v, err := book.Value(ref("bs", "C3"))
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("30000000")))
}

func TestApply_UnknownLeaf(t *testing.T) {
	src := SourceFunc(func(context.Context) (map[model.CellRef]decimal.Decimal, error) {
		return map[model.CellRef]decimal.Decimal{ref("bs", "nope"): dec("1")}, nil
	})

	book := sheet.NewBook()
	require.NoError(t, book.DefineSheet(sheet.Schema{Name: "bs", Cells: []sheet.CellDef{{ID: "C4"}}}))

	svc := NewService(src, time.Minute)
	_, err := svc.Apply(context.Background(), book)
	assert.Error(t, err, "unknown keys are rejected, not silently defaulted")
}
