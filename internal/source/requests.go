package source

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// RequestFocus is the kind of a focus request line.
const RequestFocus = "focus_request"

// Request is one line written back towards the window manager.
type Request struct {
	Kind string `json:"kind"`
	ID   uint64 `json:"id"`
}

// RequestWriter writes requests to w as newline-delimited JSON. It is safe
// for concurrent use.
type RequestWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewRequestWriter creates a writer emitting to w.
func NewRequestWriter(w io.Writer) *RequestWriter {
	return &RequestWriter{enc: json.NewEncoder(w)}
}

// Focus writes a focus request for window id.
func (r *RequestWriter) Focus(id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(Request{Kind: RequestFocus, ID: id}); err != nil {
		return fmt.Errorf("write focus request: %w", err)
	}
	return nil
}
