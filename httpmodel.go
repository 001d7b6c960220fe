// httpmodel.go: HTTP-backed implementations of the Embedder and ModelInvoker
// capabilities, for hosts that front real providers with a gateway.
//
// The wire contract is deliberately tiny. Invocation:
//
//	POST {base}/invoke  {"model": "...", "args": [...]}  ->  {"result": ...}
//
// Embedding:
//
//	POST {base}/embed   {"model": "...", "text": "..."}  ->  {"embedding": [...]}
//
// A non-2xx status or an "error" field in the body turns into a plain Go
// error, which the interpreter surfaces as a Runtime Error at the EMBED/AI
// expression's position.
package sentience

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oarkflow/json"
	"github.com/oarkflow/log"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPGateway talks to a model gateway over HTTP. It implements both
// Embedder and ModelInvoker.
type HTTPGateway struct {
	base   string
	client *http.Client
	logger *log.Logger
}

// NewHTTPGateway creates a gateway client for the given base URL.
func NewHTTPGateway(base string, logger *log.Logger) *HTTPGateway {
	if logger == nil {
		logger = &log.DefaultLogger
	}
	return &HTTPGateway{
		base:   base,
		client: &http.Client{Timeout: defaultHTTPTimeout},
		logger: logger,
	}
}

type invokeRequest struct {
	Model string `json:"model"`
	Args  []any  `json:"args"`
}

type invokeResponse struct {
	Result any    `json:"result"`
	Error  string `json:"error"`
}

type embedRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error"`
}

// InvokeModel implements ModelInvoker.
func (g *HTTPGateway) InvokeModel(model string, args []any) (any, error) {
	started := time.Now()
	var resp invokeResponse
	err := g.post("/invoke", invokeRequest{Model: model, Args: args}, &resp)
	g.logger.Debug().
		Str("model", model).
		Int("args", len(args)).
		Dur("elapsed", time.Since(started)).
		Err(err).
		Msg("model invocation")
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("gateway: %s", resp.Error)
	}
	return resp.Result, nil
}

// Embed implements Embedder.
func (g *HTTPGateway) Embed(text, model string) ([]float64, error) {
	started := time.Now()
	var resp embedResponse
	err := g.post("/embed", embedRequest{Model: model, Text: text}, &resp)
	g.logger.Debug().
		Str("model", model).
		Int("text_len", len(text)).
		Dur("elapsed", time.Since(started)).
		Err(err).
		Msg("embedding request")
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("gateway: %s", resp.Error)
	}
	return resp.Embedding, nil
}

func (g *HTTPGateway) post(path string, reqBody, respBody any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpResp, err := g.client.Post(g.base+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return fmt.Errorf("gateway returned %s", httpResp.Status)
	}
	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
