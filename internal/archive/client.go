package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/deadair/tapedeck/internal/config"
	"github.com/deadair/tapedeck/internal/domain"
)

const (
	userAgent    = "Tapedeck/1.0"
	searchRows   = 50
	retryBackoff = 500 * time.Millisecond
)

// Client implements domain.ArchiveRepository against the Internet Archive
// HTTP API. Retry/backoff of flaky transfers lives here; callers treat a
// call as a single attempt.
type Client struct {
	searchURL   string
	metadataURL string
	downloadURL string
	maxRetries  int
	httpClient  *http.Client
	dlClient    *http.Client // no overall deadline, bodies can be large
	logger      *slog.Logger
}

// NewClient creates a new archive API client
func NewClient(cfg config.ArchiveConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		searchURL:   cfg.SearchURL,
		metadataURL: cfg.MetadataURL,
		downloadURL: cfg.DownloadURL,
		maxRetries:  cfg.MaxRetries,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		dlClient: &http.Client{},
		logger:   logger,
	}
}

// doRequest performs a GET with the client's retry budget
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			c.logger.Debug("retrying archive request", "url", reqURL, "attempt", attempt+1)
		}

		body, retryable, err := c.doOnce(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	c.logger.Error("archive request failed, retry budget exhausted", "url", reqURL, "error", lastErr)
	return nil, lastErr
}

// doOnce performs a single GET attempt. The bool reports whether the
// failure is worth retrying.
func (c *Client) doOnce(ctx context.Context, reqURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("archive request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrArchiveOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrArchiveOffline, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, domain.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrArchiveOffline, resp.StatusCode)
	default:
		c.logger.Error("archive request error", "status", resp.StatusCode, "body", string(body))
		return nil, false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// SearchShows returns candidate items for an (artist, date) query in the
// archive's own relevance order
func (c *Client) SearchShows(ctx context.Context, artist, date string) ([]domain.ArchiveItem, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("collection:%s AND date:%s", artist, date))
	query.Add("fl[]", "identifier")
	query.Add("fl[]", "title")
	query.Set("rows", fmt.Sprintf("%d", searchRows))
	query.Set("page", "1")
	query.Set("output", "json")

	body, err := c.doRequest(ctx, fmt.Sprintf("%s?%s", c.searchURL, query.Encode()))
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("search parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: %v", domain.ErrBadResponse, err)
	}

	items := make([]domain.ArchiveItem, 0, len(resp.Response.Docs))
	for _, doc := range resp.Response.Docs {
		if doc.Identifier == "" {
			continue
		}
		items = append(items, domain.ArchiveItem{
			Identifier: doc.Identifier,
			Title:      doc.Title,
		})
	}

	c.logger.Debug("search complete", "artist", artist, "date", date, "candidates", len(items))
	return items, nil
}

// GetFiles returns the file listing for an archive item
func (c *Client) GetFiles(ctx context.Context, identifier string) ([]domain.FileEntry, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("%s/%s/files", c.metadataURL, url.PathEscape(identifier)))
	if err != nil {
		return nil, err
	}

	var resp filesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("metadata parse error", "error", err, "identifier", identifier)
		return nil, fmt.Errorf("%w: %v", domain.ErrBadResponse, err)
	}

	files := make([]domain.FileEntry, 0, len(resp.Result))
	for _, doc := range resp.Result {
		if doc.Name == "" {
			continue
		}
		files = append(files, domain.FileEntry{
			Name:   doc.Name,
			Format: doc.Format,
			Size:   doc.sizeBytes(),
		})
	}

	return files, nil
}

// DownloadFiles fetches the named files of an item and writes them under
// destDir/<identifier>/. Existing files are overwritten by path, which
// keeps a re-download after a crash idempotent.
func (c *Client) DownloadFiles(ctx context.Context, identifier string, names []string, destDir string) ([]string, error) {
	itemDir := filepath.Join(destDir, identifier)
	if err := os.MkdirAll(itemDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		localPath := filepath.Join(itemDir, name)
		if err := c.downloadFile(ctx, identifier, name, localPath); err != nil {
			return nil, err
		}
		paths = append(paths, localPath)
	}

	return paths, nil
}

// downloadFile streams one file to disk, with the same retry budget as
// metadata requests
func (c *Client) downloadFile(ctx context.Context, identifier, name, localPath string) error {
	reqURL := fmt.Sprintf("%s/%s/%s", c.downloadURL, url.PathEscape(identifier), url.PathEscape(name))

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * retryBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			c.logger.Debug("retrying download", "file", name, "attempt", attempt+1)
		}

		retryable, err := c.downloadOnce(ctx, reqURL, localPath)
		if err == nil {
			c.logger.Info("downloaded file", "identifier", identifier, "file", name)
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	return lastErr
}

func (c *Client) downloadOnce(ctx context.Context, reqURL, localPath string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.dlClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("%w: %v", domain.ErrArchiveOffline, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode >= 500, fmt.Errorf("%w: status %d", domain.ErrArchiveOffline, resp.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return false, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(localPath) // Drop the partial file
		return true, fmt.Errorf("%w: %v", domain.ErrArchiveOffline, err)
	}

	return false, out.Close()
}
