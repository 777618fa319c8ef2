package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const maxBodySize = 256 << 20

type httpTransport struct {
	name    string
	client  *http.Client
	timeout time.Duration
	maxBody int64
	logger  zerolog.Logger
}

func newHTTPTransport(name string, client *http.Client, timeout time.Duration, logger zerolog.Logger) httpTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return httpTransport{name: name, client: client, timeout: timeout, maxBody: maxBodySize, logger: logger}
}

// do sends one request bounded by the transport timeout. Any failure, including a
// timeout or a non-2xx status, comes back as a *FetchError.
func (t httpTransport) do(ctx context.Context, method, url string, header http.Header, body any) (int, []byte, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s request: %w", t.name, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, &FetchError{Source: t.name, Detail: "invalid request", Err: err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, nil, &FetchError{Source: t.name, Detail: "timeout", Err: ctx.Err()}
		}
		return 0, nil, &FetchError{Source: t.name, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return resp.StatusCode, nil, &FetchError{Source: t.name, Status: resp.StatusCode, Detail: "read body", Err: err}
	}
	if int64(len(data)) > t.maxBody {
		return resp.StatusCode, nil, &FetchError{
			Source: t.name,
			Status: resp.StatusCode,
			Detail: fmt.Sprintf("response exceeds %d bytes", t.maxBody),
			Err:    ErrBodyTooLarge,
		}
	}

	t.logger.Debug().
		Str("method", method).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Dur("took", time.Since(start)).
		Msg("Source request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, data, &FetchError{Source: t.name, Status: resp.StatusCode, Detail: errorDetail(data)}
	}
	return resp.StatusCode, data, nil
}
