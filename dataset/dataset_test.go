package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wyfcoding/probkit/xerrors"
)

func TestReadKeepsColumnOrder(t *testing.T) {
	src := "\ufeffcolor, size ,n,label\nred,big,10,A\nblue,small,5,\n"
	table, err := Read(strings.NewReader(src), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	wantHeader := []string{"color", "size", "n", "label"}
	for i, h := range wantHeader {
		if table.Header[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, table.Header[i], h)
		}
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if got := strings.Join(table.Rows[0].Columns(), ","); got != "color,size,n,label" {
		t.Errorf("row columns = %s", got)
	}
	if v, ok := table.Rows[1].Get("label"); !ok || v != "" {
		t.Errorf("label = %q, %v; want empty present value", v, ok)
	}
	if _, ok := table.Rows[1].Get("missing"); ok {
		t.Errorf("unexpected column")
	}
}

func TestReadMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"ragged":       "a,n,label\nx,1\n",
		"duplicate":    "a,a,label\nx,1,A\n",
		"blank header": "a,,label\nx,1,A\n",
		"unterminated": "a,n,label\n\"x,1,A\n",
	}
	for name, src := range cases {
		_, err := Read(strings.NewReader(src), Options{})
		if !errors.Is(err, xerrors.ErrMalformedInput) {
			t.Errorf("%s: expected ErrMalformedInput, got %v", name, err)
		}
	}
}

func TestLoadTSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.tsv")
	if err := os.WriteFile(path, []byte("color\tn\tlabel\nred\t3\tA\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	table, err := Load(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := table.Rows[0].Get("n"); v != "3" {
		t.Errorf("n = %q, want 3", v)
	}

	if _, err := Load(context.Background(), filepath.Join(dir, "nope.csv"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(bad, []byte("color,n\nred,1,extra\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = Load(context.Background(), bad, Options{})
	if !errors.Is(err, xerrors.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput through the file wrapper, got %v", err)
	}
	if !strings.Contains(err.Error(), "read bad.csv") {
		t.Errorf("file name missing from error: %v", err)
	}
}
