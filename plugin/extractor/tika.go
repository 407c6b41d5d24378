package extractor

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
)

// TikaClient extracts text from binary documents through an Apache Tika
// server. It backs the pdf and docx parsers when a server is available.
type TikaClient struct {
	serverURL  string
	httpClient *http.Client
}

// tikaMimeTypes maps document kinds to the MIME type sent to Tika.
var tikaMimeTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// NewTikaClient creates a client for the given Tika server. An empty
// URL falls back to SYNTH_TIKA_URL, then to the conventional local
// address.
func NewTikaClient(serverURL string) *TikaClient {
	if serverURL == "" {
		serverURL = os.Getenv("SYNTH_TIKA_URL")
	}
	if serverURL == "" {
		serverURL = "http://localhost:9998"
	}
	return &TikaClient{
		serverURL:  serverURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Parser returns an extraction Func for the given document kind,
// suitable for Extractor.Register.
func (t *TikaClient) Parser(kind string) Func {
	mimeType := tikaMimeTypes[kind]
	return func(data []byte) (string, error) {
		return t.extract(context.Background(), data, mimeType)
	}
}

// RegisterAll installs Tika-backed parsers for every kind the client
// understands.
func (t *TikaClient) RegisterAll(e *Extractor) {
	for kind := range tikaMimeTypes {
		e.Register(kind, t.Parser(kind))
	}
}

// extract sends the document to Tika's plain-text endpoint.
func (t *TikaClient) extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.serverURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "build tika request")
	}
	if mimeType != "" {
		req.Header.Set("Content-Type", mimeType)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "tika request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("tika returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read tika response")
	}
	return string(body), nil
}
