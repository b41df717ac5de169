package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/ogurasousui/hrsync/internal/core/hrsync"
	"github.com/ogurasousui/hrsync/internal/core/settings"
)

// ErrMissingSheetID は SheetID が空のまま読み取りを要求された場合に返されます。
var ErrMissingSheetID = errors.New("sheets: sheet id is required")

// Reader は Google Sheets API v4 の values.get でセル範囲を読み取ります。
type Reader struct {
	endpoint string
	timeout  time.Duration
}

var _ hrsync.SheetReader = (*Reader)(nil)

// NewReader は Reader を生成します。endpoint が空の場合はライブラリの既定値を使います。
func NewReader(endpoint string, timeout time.Duration) *Reader {
	return &Reader{endpoint: endpoint, timeout: timeout}
}

// ReadRange は readRange のセルを文字列として返します。values を含まない応答は空のスライスです。
func (r *Reader) ReadRange(ctx context.Context, cfg settings.Configuration, readRange string) ([][]string, error) {
	if cfg.SheetID == "" {
		return nil, ErrMissingSheetID
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if r.endpoint != "" {
		opts = append(opts, option.WithEndpoint(r.endpoint))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create client: %w", err)
	}

	resp, err := svc.Spreadsheets.Values.Get(cfg.SheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: get %s: %w", readRange, err)
	}

	return toStrings(resp.Values), nil
}

func toStrings(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		row := make([]string, len(v))
		for i, cell := range v {
			if cell == nil {
				continue
			}
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows
}
