// Package respond writes a validated contract to an HTTP response.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jeffcaradona/data-contract-library/pkg/contract"
)

// Outcome is the terminal state of a single dispatch.
type Outcome string

const (
	OutcomeRejected  Outcome = "rejected"
	OutcomeCompleted Outcome = "completed"
	OutcomeAborted   Outcome = "aborted"
)

// Observer receives dispatch results. Implementations must be safe for
// concurrent use; the demo server wires a Prometheus-backed one.
type Observer interface {
	Dispatched(kind contract.Kind, outcome Outcome)
	StreamedBytes(n int64)
}

// StreamError reports a failure after streaming already started. Headers are
// out by then, so the only remedy is aborting the response.
type StreamError struct {
	Filename string
	Written  int64
	Err      error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream %q aborted after %d bytes: %v", e.Filename, e.Written, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type smallBody struct {
	Data     any            `json:"data"`
	Metadata map[string]any `json:"metadata"`
}

type paginatedBody struct {
	Items      any            `json:"items"`
	Pagination map[string]any `json:"pagination"`
}

// Dispatcher validates contracts and performs their sink-side behavior.
// The zero value works; New attaches a logger and observer.
type Dispatcher struct {
	log *slog.Logger
	obs Observer
}

type Option func(*Dispatcher)

func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

func WithObserver(obs Observer) Option {
	return func(d *Dispatcher) { d.obs = obs }
}

func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	return d
}

// Dispatch validates c and writes the matching response shape to w.
//
// A validation failure writes HTTP 400 with the taxonomy code and returns
// the *contract.ValidationError. Small and paginated contracts complete
// synchronously. Streamed contracts copy bytes from the contract's stream
// straight to w without buffering, close the stream exactly once on every
// exit path, and return a *StreamError when the transfer dies mid-flight.
// The caller decides how to abort the connection in that case; nothing more
// can be written once streaming has begun.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request, c contract.Contract) error {
	if err := contract.Validate(c); err != nil {
		d.observe(c.Kind, OutcomeRejected)
		var verr *contract.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Code, verr.Message)
		} else {
			writeError(w, http.StatusBadRequest, "InvalidContract", err.Error())
		}
		return err
	}

	switch c.Kind {
	case contract.KindSmall:
		err := writeJSON(w, http.StatusOK, smallBody{Data: c.Data, Metadata: c.Metadata})
		d.finishJSON(c.Kind, err)
		return err
	case contract.KindPaginated:
		err := writeJSON(w, http.StatusOK, paginatedBody{Items: c.Data, Pagination: c.Metadata})
		d.finishJSON(c.Kind, err)
		return err
	default:
		return d.stream(r.Context(), w, c)
	}
}

func (d *Dispatcher) stream(ctx context.Context, w http.ResponseWriter, c contract.Contract) error {
	stream := c.Stream
	defer func() {
		if closer, ok := stream.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	filename, _ := c.Metadata[contract.MetaFilename].(string)
	contentType, _ := c.Metadata[contract.MetaContentType].(string)
	if contentType == "" {
		contentType = contract.DefaultContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	written, err := io.Copy(w, &cancelReader{ctx: ctx, r: stream})
	if d.obs != nil && written > 0 {
		d.obs.StreamedBytes(written)
	}
	if err != nil {
		d.observe(c.Kind, OutcomeAborted)
		d.logger().Error("stream aborted", "filename", filename, "written", written, "error", err)
		return &StreamError{Filename: filename, Written: written, Err: err}
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	d.observe(c.Kind, OutcomeCompleted)
	return nil
}

func (d *Dispatcher) finishJSON(kind contract.Kind, err error) {
	if err != nil {
		d.observe(kind, OutcomeAborted)
		d.logger().Error("response write failed", "kind", kind.String(), "error", err)
		return
	}
	d.observe(kind, OutcomeCompleted)
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.log == nil {
		return slog.Default()
	}
	return d.log
}

func (d *Dispatcher) observe(kind contract.Kind, outcome Outcome) {
	if d.obs != nil {
		d.obs.Dispatched(kind, outcome)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Code: code, Message: message}})
}

// cancelReader stops a copy when the request context is done, so an
// externally closed connection releases the in-flight stream instead of
// blocking on a slow source.
type cancelReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *cancelReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
