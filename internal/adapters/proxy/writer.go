package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ogurasousui/hrsync/internal/core/hrsync"
)

// Writer は書き込みプロキシへ追記要求を POST します。
// 応答の内容は検証せず、ステータスはログにのみ残します。
type Writer struct {
	client *http.Client
	logger *log.Logger
}

var _ hrsync.SheetWriter = (*Writer)(nil)

// NewWriter は Writer を生成します。client と logger は nil を許容します。
func NewWriter(client *http.Client, logger *log.Logger) *Writer {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[proxy] ", log.LstdFlags)
	}
	return &Writer{client: client, logger: logger}
}

// NewTimeoutWriter は timeout を持つ http.Client で Writer を生成します。
func NewTimeoutWriter(timeout time.Duration, logger *log.Logger) *Writer {
	return NewWriter(&http.Client{Timeout: timeout}, logger)
}

// Append は req を JSON として proxyURL へ送信します。送信自体に失敗した場合のみエラーを返します。
func (w *Writer) Append(ctx context.Context, proxyURL string, req hrsync.AppendRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("proxy: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, proxyURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("proxy: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("proxy: post %s: %w", req.Range, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		w.logger.Printf("append %s: proxy responded %s", req.Range, resp.Status)
	}
	return nil
}
