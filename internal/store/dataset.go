package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/parquet-go/parquet-go"

	"fii-data/internal/model"
)

// Dataset is the persisted price-history table: the union of every bar ever
// merged, one parquet blob with columns ticker,date,open,high,low,close,volume.
// Read-modify-write per run; this assumes at most one run at a time.
type Dataset struct {
	Blob BlobStore
	Log  *slog.Logger // when nil, slog.Default
}

// NewDataset wraps a blob store.
func NewDataset(blob BlobStore) *Dataset {
	return &Dataset{Blob: blob}
}

func (d *Dataset) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

// Update merges freshly fetched bars into the persisted dataset and rewrites
// the blob in one write. A missing blob is the first run: empty dataset, not
// an error. Any other load failure, a corrupt blob or a failed write is fatal.
// Idempotent: re-running with the same fresh bars changes nothing.
func (d *Dataset) Update(ctx context.Context, fresh []model.Bar) error {
	log := d.logger()

	existing, err := d.load(ctx)
	if err != nil {
		return err
	}

	merged := MergeRows(existing, fresh)
	data, err := EncodeRows(merged)
	if err != nil {
		return fmt.Errorf("store: encode dataset: %w", err)
	}
	if err := d.Blob.Save(ctx, data); err != nil {
		return fmt.Errorf("store: save dataset: %w", err)
	}

	log.Info("dataset updated", "where", d.Blob.Where(), "existing", len(existing), "fetched", len(fresh), "rows", len(merged))
	return nil
}

func (d *Dataset) load(ctx context.Context) ([]model.Bar, error) {
	data, err := d.Blob.Load(ctx)
	if errors.Is(err, ErrNotExist) {
		d.logger().Info("dataset blob not found, starting empty", "where", d.Blob.Where())
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load dataset: %w", err)
	}
	rows, err := DecodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("store: decode dataset: %w", err)
	}
	return rows, nil
}

// MergeRows concatenates existing rows before fresh rows and drops duplicate
// (ticker, date) keys, keeping the first occurrence: a key already in the
// dataset keeps its stored values and the newly fetched row is discarded.
// TODO: confirm existing-wins precedence is intended; latest-wins would be
// the other defensible reading.
func MergeRows(existing, fresh []model.Bar) []model.Bar {
	out := make([]model.Bar, 0, len(existing)+len(fresh))
	seen := make(map[string]struct{}, len(existing)+len(fresh))
	for _, rows := range [][]model.Bar{existing, fresh} {
		for _, r := range rows {
			k := r.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

// EncodeRows serializes the full dataset as one parquet table.
func EncodeRows(rows []model.Bar) ([]byte, error) {
	var buf bytes.Buffer
	if err := parquet.Write[model.Bar](&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeRows reads the parquet table back into memory.
func DecodeRows(data []byte) ([]model.Bar, error) {
	return parquet.Read[model.Bar](bytes.NewReader(data), int64(len(data)))
}
