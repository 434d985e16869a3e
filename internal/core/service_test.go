package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/CrawlClean/internal/config"
)

var fixedNow = time.Date(2024, time.August, 2, 9, 30, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{MaxConcurrent: 2, MaxWaitTime: time.Second},
		Clean:  config.CleanConfig{PreviewRows: 3, SampleSize: 10, MatchThreshold: 0.5},
	}
}

// copyURLs is a minimal normalizer: one product per row carrying the first cell.
func copyURLs(raw RawTable, captured Capture) (NormalizedTable, error) {
	def, _ := Get(Amazon)
	out := NormalizedTable{Retailer: Amazon, Columns: def.NewSchema()}
	for _, row := range raw.Rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		out.Rows = append(out.Rows, Product{ProductURL: ToPgText(row[0]), Captured: captured})
	}
	return out, nil
}

func newTestService(t *testing.T, fn NormalizeFunc) *Service {
	t.Helper()
	Clear()
	t.Cleanup(Clear)
	Register(fakeDefinition(Amazon, fn))

	svc, err := NewService(testConfig(), WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func amazonTable() RawTable {
	return RawTable{
		Headers: []string{"url"},
		Rows: [][]string{
			{"https://www.amazon.com/dp/B08N5WRWNW"},
			{""},
			{"https://www.amazon.com/dp/B07XJ8C8F5"},
		},
	}
}

func TestNewService_Errors(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	if _, err := NewService(nil); err == nil {
		t.Error("NewService(nil) should fail")
	}
	if _, err := NewService(testConfig()); err == nil {
		t.Error("NewService with an empty registry should fail")
	}
}

func TestService_Clean(t *testing.T) {
	svc := newTestService(t, copyURLs)

	result, err := svc.Clean(context.Background(), CleanRequest{
		Retailer: Amazon,
		FileName: "amazon.xlsx",
		Table:    amazonTable(),
	})
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if result.InputRows != 3 || result.Dropped != 1 {
		t.Errorf("InputRows = %d, Dropped = %d, want 3 and 1", result.InputRows, result.Dropped)
	}
	if result.Validation == nil || !result.Validation.Accepted {
		t.Errorf("Validation = %+v, want accepted", result.Validation)
	}
	for i, p := range result.Table.Rows {
		if !p.Captured.At.Equal(fixedNow) || p.Captured.Quarter != 3 {
			t.Errorf("row %d capture = %+v, want fixed clock", i, p.Captured)
		}
	}
	if got := svc.RunLimiterStatus().Active; got != 0 {
		t.Errorf("active runs after Clean = %d, want 0", got)
	}
}

func TestService_CleanMismatch(t *testing.T) {
	called := false
	svc := newTestService(t, func(raw RawTable, c Capture) (NormalizedTable, error) {
		called = true
		return NormalizedTable{}, nil
	})

	table := RawTable{Headers: []string{"url"}, Rows: [][]string{{"https://www.walmart.com/ip/1"}}}
	result, err := svc.Clean(context.Background(), CleanRequest{Retailer: Amazon, Table: table})

	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Clean() error = %v, want *MismatchError", err)
	}
	if mismatch.Validation.Detected != Walmart {
		t.Errorf("Detected = %q, want Walmart", mismatch.Validation.Detected)
	}
	if called {
		t.Error("normalizer ran after a retailer mismatch")
	}
	if !result.Table.Empty() {
		t.Error("mismatch must not return rows")
	}

	if _, err := svc.Clean(context.Background(), CleanRequest{Retailer: Amazon, Table: table, SkipValidation: true}); err != nil {
		t.Errorf("Clean() with SkipValidation error = %v", err)
	}
	if !called {
		t.Error("normalizer should run when validation is skipped")
	}
}

func TestService_CleanRecoversPanic(t *testing.T) {
	svc := newTestService(t, func(raw RawTable, c Capture) (NormalizedTable, error) {
		var rows []Product
		_ = rows[len(raw.Rows)]
		return NormalizedTable{}, nil
	})

	result, err := svc.Clean(context.Background(), CleanRequest{Retailer: Amazon, Table: amazonTable()})
	if !errors.Is(err, ErrUnexpectedProcessing) {
		t.Fatalf("Clean() error = %v, want ErrUnexpectedProcessing", err)
	}
	if !result.Table.Empty() {
		t.Error("panic must not yield partial output")
	}
	if got := svc.RunLimiterStatus().Active; got != 0 {
		t.Errorf("slot leaked after panic: active = %d", got)
	}
}

func TestService_CleanDoesNotMutateInput(t *testing.T) {
	svc := newTestService(t, func(raw RawTable, c Capture) (NormalizedTable, error) {
		raw.Headers[0] = "mutated"
		raw.Rows[0][0] = "mutated"
		return NormalizedTable{}, nil
	})

	table := amazonTable()
	if _, err := svc.Clean(context.Background(), CleanRequest{Retailer: Amazon, Table: table}); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if table.Headers[0] != "url" || table.Rows[0][0] != "https://www.amazon.com/dp/B08N5WRWNW" {
		t.Error("caller's table was modified")
	}
}

func TestService_CleanErrors(t *testing.T) {
	svc := newTestService(t, copyURLs)

	if _, err := svc.Clean(context.Background(), CleanRequest{Retailer: Walmart, Table: amazonTable()}); !errors.Is(err, ErrUnknownRetailer) {
		t.Errorf("unregistered retailer error = %v, want ErrUnknownRetailer", err)
	}

	failing := newTestService(t, func(RawTable, Capture) (NormalizedTable, error) {
		return NormalizedTable{}, &MissingColumnError{Retailer: Amazon, Column: "url"}
	})
	if _, err := failing.Clean(context.Background(), CleanRequest{Retailer: Amazon, Table: amazonTable()}); !errors.Is(err, ErrMissingRequiredColumn) {
		t.Errorf("normalizer error = %v, want ErrMissingRequiredColumn", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := failing.Clean(ctx, CleanRequest{Retailer: Amazon, Table: amazonTable()}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context error = %v, want context.Canceled", err)
	}
}

func TestService_Accessors(t *testing.T) {
	svc := newTestService(t, copyURLs)

	if got := svc.PreviewRows(); got != 3 {
		t.Errorf("PreviewRows() = %d, want 3", got)
	}
	if infos := svc.ListRetailers(); len(infos) != 1 || infos[0].Retailer != Amazon {
		t.Errorf("ListRetailers() = %+v, want only Amazon", infos)
	}
	if _, err := svc.HeaderRow(Mercado); !errors.Is(err, ErrUnknownRetailer) {
		t.Errorf("HeaderRow(Mercado) error = %v, want ErrUnknownRetailer", err)
	}
	if v := svc.Validate(amazonTable(), Amazon); !v.Accepted {
		t.Errorf("Validate() = %+v, want accepted", v)
	}
	if err := svc.WaitForRuns(context.Background()); err != nil {
		t.Errorf("WaitForRuns() error = %v", err)
	}
}
