// Package ingest loads Lighthouse reports from files, HTTP endpoints and
// message payloads and feeds them into a scoring session.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
)

// maxReportBytes bounds how much of a report body is read.
const maxReportBytes = 32 << 20

// Source yields a parsed score mapping. Content problems are returned as
// *scoring.ParseError; retrieval problems use the error types below.
type Source interface {
	Name() string
	Load(ctx context.Context) (scoring.ScoreMapping, error)
}

// TransportError reports a remote report that could not be retrieved.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SizeError reports a remote report body larger than the read limit.
type SizeError struct {
	URL   string
	Limit int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("fetch %s: report exceeds %d bytes", e.URL, e.Limit)
}

// SourceError reports a local report that could not be read.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }

func (e *SourceError) Unwrap() error { return e.Err }

// FileSource reads a report from the local filesystem.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Load(ctx context.Context) (scoring.ScoreMapping, error) {
	if err := ctx.Err(); err != nil {
		return scoring.ScoreMapping{}, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return scoring.ScoreMapping{}, &SourceError{Path: s.Path, Err: err}
	}
	return scoring.ParseJSON(data)
}

// RemoteSource fetches a report over HTTP.
type RemoteSource struct {
	URL        string
	httpClient *http.Client
	limit      int64
}

func NewRemoteSource(url string, timeout time.Duration) *RemoteSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteSource{
		URL:        url,
		httpClient: &http.Client{Timeout: timeout},
		limit:      maxReportBytes,
	}
}

func (s *RemoteSource) Name() string { return "remote" }

func (s *RemoteSource) Load(ctx context.Context) (scoring.ScoreMapping, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return scoring.ScoreMapping{}, &TransportError{URL: s.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return scoring.ScoreMapping{}, &TransportError{URL: s.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return scoring.ScoreMapping{}, &TransportError{URL: s.URL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.limit+1))
	if err != nil {
		return scoring.ScoreMapping{}, &TransportError{URL: s.URL, Err: err}
	}
	if int64(len(body)) > s.limit {
		return scoring.ScoreMapping{}, &SizeError{URL: s.URL, Limit: s.limit}
	}
	return scoring.ParseJSON(body)
}

// BytesSource wraps report text already in memory, such as an HTTP request
// body or a message payload.
type BytesSource struct {
	name string
	data []byte
}

func NewBytesSource(name string, data []byte) *BytesSource {
	return &BytesSource{name: name, data: data}
}

func (s *BytesSource) Name() string { return s.name }

func (s *BytesSource) Load(ctx context.Context) (scoring.ScoreMapping, error) {
	if err := ctx.Err(); err != nil {
		return scoring.ScoreMapping{}, err
	}
	return scoring.ParseJSON(s.data)
}
