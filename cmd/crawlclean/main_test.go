package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/CrawlClean/internal/config"
	"github.com/JonMunkholm/CrawlClean/internal/core"
	"github.com/JonMunkholm/CrawlClean/internal/sheet"
	"github.com/xuri/excelize/v2"
)

const amazonCSV = "a-link-normal href,a-size-base-plus,a-icon-alt,a-offscreen\n" +
	"https://www.amazon.com/dp/B08N5WRWNW,Echo Dot,4.3 out of 5 stars,$49.99\n" +
	"https://www.amazon.com/dp/B07XJ8C8F5,Kindle,4.8 out of 5 stars,$89.99\n"

// run executes the CLI with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmdWithEnv(config.MapEnv(map[string]string{"LOG_LEVEL": "error"}))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClean_WritesXLSX(t *testing.T) {
	in := writeInput(t, "crawl.csv", amazonCSV)
	out := filepath.Join(t.TempDir(), "cleaned.xlsx")

	stdout, err := run(t, "clean", "--retailer", "amazon", "--out", out, in)
	if err != nil {
		t.Fatalf("clean error = %v", err)
	}
	if !strings.Contains(stdout, "Cleaned 2 of 2 rows") {
		t.Errorf("stdout = %q", stdout)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet.SheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[1][1] != "B08N5WRWNW" {
		t.Errorf("product_code = %q", rows[1][1])
	}
}

func TestClean_WritesCSV(t *testing.T) {
	in := writeInput(t, "crawl.csv", amazonCSV)
	out := filepath.Join(t.TempDir(), "cleaned.csv")

	if _, err := run(t, "clean", "-r", "Amazon", "-o", out, in); err != nil {
		t.Fatalf("clean error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "product_url,product_code,product_title,") {
		t.Errorf("csv header = %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestClean_Errors(t *testing.T) {
	in := writeInput(t, "crawl.csv", amazonCSV)
	outDir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "mismatch",
			args:    []string{"clean", "-r", "walmart", "-o", filepath.Join(outDir, "w.xlsx"), in},
			wantErr: core.ErrRetailerMismatch,
			wantMsg: "VAL010",
		},
		{
			name:    "unknown retailer",
			args:    []string{"clean", "-r", "target", in},
			wantErr: core.ErrUnknownRetailer,
		},
		{
			name:    "unsupported output",
			args:    []string{"clean", "-r", "amazon", "-o", filepath.Join(outDir, "out.pdf"), in},
			wantErr: core.ErrUnsupportedFile,
		},
		{
			name:    "missing file",
			args:    []string{"clean", "-r", "amazon", "-o", filepath.Join(outDir, "a.xlsx"), filepath.Join(outDir, "nope.csv")},
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q missing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestClean_SkipValidation(t *testing.T) {
	in := writeInput(t, "crawl.csv", amazonCSV)
	out := filepath.Join(t.TempDir(), "w.csv")

	if _, err := run(t, "clean", "-r", "walmart", "--skip-validation", "-o", out, in); err != nil {
		t.Fatalf("clean error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestValidate(t *testing.T) {
	in := writeInput(t, "crawl.csv", amazonCSV)

	stdout, err := run(t, "validate", "-r", "amazon", in)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	for _, want := range []string{"File matches Amazon.", "URL column: a-link-normal href (2 rows sampled)", "Amazon   100%"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}

	if _, err := run(t, "validate", "-r", "mercado", in); !errors.Is(err, core.ErrRetailerMismatch) {
		t.Errorf("mismatch error = %v", err)
	}
}

func TestRetailers(t *testing.T) {
	stdout, err := run(t, "retailers")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), stdout)
	}
	if !strings.HasPrefix(lines[1], "Mercado  domain=mercadolivre header_row=1") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestCLIError(t *testing.T) {
	plain := errors.New("disk on fire")
	mismatch := &core.MismatchError{Validation: core.Validation{Message: "This file looks like Amazon data, not Walmart."}}

	tests := []struct {
		name    string
		err     error
		want    string
		wantErr error
	}{
		{name: "nil stays nil"},
		{
			name:    "unknown error passes through",
			err:     plain,
			want:    "disk on fire",
			wantErr: plain,
		},
		{
			name:    "mismatch gets code and action",
			err:     mismatch,
			want:    "The file does not match the selected retailer (Code: VAL010). Select the retailer the file was crawled from: retailer mismatch: This file looks like Amazon data, not Walmart.",
			wantErr: core.ErrRetailerMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cliError(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("cliError(nil) = %v", got)
				}
				return
			}
			if got.Error() != tt.want {
				t.Errorf("cliError() = %q, want %q", got.Error(), tt.want)
			}
			if !errors.Is(got, tt.wantErr) {
				t.Errorf("cliError() does not wrap %v", tt.wantErr)
			}
		})
	}
}
