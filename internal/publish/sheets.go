package publish

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/google"

	"fii-data/internal/model"
)

const (
	sheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"
	sheetsScope   = "https://www.googleapis.com/auth/spreadsheets"

	sheetsTimeout = 30 * time.Second
)

// SheetsSink publishes to one worksheet of a Google spreadsheet:
// a full clear-then-write of the holdings table at the origin, then the
// timestamp cells as a second, independent write.
type SheetsSink struct {
	http      *resty.Client
	sheetKey  string
	worksheet string
}

// NewSheetsSink authenticates with the service-account key file and returns
// a sink bound to the given spreadsheet key and worksheet name.
func NewSheetsSink(credentialsPath, sheetKey, worksheet string) (*SheetsSink, error) {
	creds, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("publish: read credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(creds, sheetsScope)
	if err != nil {
		return nil, fmt.Errorf("publish: parse credentials: %w", err)
	}
	http := resty.NewWithClient(conf.Client(context.Background())).
		SetBaseURL(sheetsBaseURL).
		SetTimeout(sheetsTimeout)
	return &SheetsSink{http: http, sheetKey: sheetKey, worksheet: worksheet}, nil
}

func (s *SheetsSink) Name() string { return "sheets" }

// Publish clears the worksheet, writes the table from A1, then writes the
// timestamp block. The second write touches only its own cells.
func (s *SheetsSink) Publish(ctx context.Context, snap model.Snapshot) error {
	if err := s.clear(ctx); err != nil {
		return err
	}
	if err := s.writeRange(ctx, s.worksheet+"!A1", tableRows(snap.Holdings)); err != nil {
		return err
	}
	stamp := [][]any{
		{stampHeader},
		{snap.UpdatedAt.Format(stampLayout)},
	}
	return s.writeRange(ctx, s.worksheet+"!"+stampHeaderCell, stamp)
}

func (s *SheetsSink) clear(ctx context.Context) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(struct{}{}).
		Post(fmt.Sprintf("/%s/values/%s:clear", s.sheetKey, url.PathEscape(s.worksheet)))
	if err != nil {
		return fmt.Errorf("publish: clear worksheet: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("publish: clear worksheet: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

func (s *SheetsSink) writeRange(ctx context.Context, rng string, values [][]any) error {
	body := map[string]any{
		"range":          rng,
		"majorDimension": "ROWS",
		"values":         values,
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("valueInputOption", "RAW").
		SetBody(body).
		Put(fmt.Sprintf("/%s/values/%s", s.sheetKey, url.PathEscape(rng)))
	if err != nil {
		return fmt.Errorf("publish: write %s: %w", rng, err)
	}
	if resp.IsError() {
		return fmt.Errorf("publish: write %s: status %d: %s", rng, resp.StatusCode(), resp.String())
	}
	return nil
}
