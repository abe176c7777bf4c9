// Package dataset 将带表头的分隔文本文件读取为保持列顺序的行序列。
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wyfcoding/probkit/xerrors"
)

// Field 是一行中的单个 (列名, 值) 对。
type Field struct {
	Column string
	Value  string
}

// Row 按表头顺序保存一行数据，列顺序有意义。
type Row []Field

// Get 返回指定列的值；列不存在时 ok 为 false。
func (r Row) Get(column string) (string, bool) {
	for _, f := range r {
		if f.Column == column {
			return f.Value, true
		}
	}
	return "", false
}

// Columns 返回该行的列名序列。
func (r Row) Columns() []string {
	cols := make([]string, len(r))
	for i, f := range r {
		cols[i] = f.Column
	}
	return cols
}

// Table 是读取后的完整数据集。
type Table struct {
	Header []string
	Rows   []Row
}

// Options 控制分隔文件的解析方式。
type Options struct {
	// Delimiter 为 0 时按扩展名推断：.tsv 使用制表符，其余使用逗号。
	Delimiter rune
}

// Load 打开并解析 path 指向的分隔文件。
func Load(ctx context.Context, path string, opts Options) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.ErrNotFound, "open "+filepath.Base(path))
	}
	defer f.Close()

	if opts.Delimiter == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
		opts.Delimiter = '\t'
	}
	table, err := Read(f, opts)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.ErrInvalidArg, "read "+filepath.Base(path))
	}
	return table, nil
}

// Read 从 r 解析分隔文本。首行为表头，其后每条记录的字段数必须与表头一致。
func Read(r io.Reader, opts Options) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = ','
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = 0
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, xerrors.Derive(xerrors.ErrMalformedInput, "missing header row")
	}
	if err != nil {
		return nil, xerrors.DeriveWrap(xerrors.ErrMalformedInput, err, "header")
	}
	header, err = cleanHeader(header)
	if err != nil {
		return nil, err
	}

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, xerrors.DeriveWrap(xerrors.ErrMalformedInput, err, "record %d", len(table.Rows)+1)
		}
		row := make(Row, len(header))
		for i, cell := range record {
			row[i] = Field{Column: header[i], Value: cleanCell(cell)}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func cleanHeader(header []string) ([]string, error) {
	out := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, cell := range header {
		if i == 0 {
			cell = strings.TrimPrefix(cell, "\ufeff")
		}
		name := cleanCell(cell)
		if name == "" {
			return nil, xerrors.Derive(xerrors.ErrMalformedInput, "header column %d is empty", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, xerrors.Derive(xerrors.ErrMalformedInput, "duplicate header column %q", name)
		}
		seen[name] = struct{}{}
		out[i] = name
	}
	return out, nil
}

func cleanCell(cell string) string {
	return strings.TrimSpace(cell)
}
