package rhttp

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
)

var (
	// ErrBufferFull is returned from writes that would grow the buffered response
	// beyond its configured limit.
	ErrBufferFull = errors.New("response buffer is full")

	// ErrAlreadyFinalized is returned when the buffered response is flushed for a
	// second time. A response is finalized at most once.
	ErrAlreadyFinalized = errors.New("response already finalized")
)

var bufPool = sync.Pool{
	New: func() any { return bytes.NewBuffer(nil) },
}

// ResponseBuffer implements http.ResponseWriter while buffering the status code,
// headers and body until the response is flushed. Until the first flush the whole
// response can be reset and replaced, which is what allows the error path to
// formulate a completely new response.
type ResponseBuffer struct {
	resp  http.ResponseWriter
	buf   *bytes.Buffer
	limit int

	status    int
	statusSet bool
	header    http.Header

	flushed   bool
	finalized bool
}

// NewResponseWriter inits a buffered response writer on top of the underlying
// response. A limit >= 0 bounds the number of buffered bytes, -1 disables the limit.
func NewResponseWriter(resp http.ResponseWriter, limit int) *ResponseBuffer {
	return newBufferResponse(resp, limit)
}

func newBufferResponse(resp http.ResponseWriter, limit int) *ResponseBuffer {
	buf, _ := bufPool.Get().(*bytes.Buffer)
	buf.Reset()

	return &ResponseBuffer{
		resp:   resp,
		buf:    buf,
		limit:  limit,
		status: http.StatusOK,
		header: make(http.Header),
	}
}

// Header returns the buffered header map. It is copied to the underlying response
// on the first flush, later changes are not visible to the client.
func (b *ResponseBuffer) Header() http.Header {
	return b.header
}

// Write buffers p. It rejects the whole write with [ErrBufferFull] if it would
// grow the buffer past the limit, nothing is partially written.
func (b *ResponseBuffer) Write(p []byte) (int, error) {
	if b.limit >= 0 && b.buf.Len()+len(p) > b.limit {
		return 0, ErrBufferFull
	}

	return b.buf.Write(p)
}

// WriteHeader buffers the status code. Only the first call has an effect, which
// mirrors the behavior of the standard library's response writer.
func (b *ResponseBuffer) WriteHeader(status int) {
	if b.statusSet {
		return
	}

	b.status = status
	b.statusSet = true
}

// Status returns the buffered status code, defaulting to 200.
func (b *ResponseBuffer) Status() int {
	return b.status
}

// Flushed returns whether the status and headers have reached the underlying
// response. After that point the response can no longer be reset or replaced.
func (b *ResponseBuffer) Flushed() bool {
	return b.flushed
}

// Reset clears the buffered body, headers and status so a new response can be
// written. It panics when the response was already flushed.
func (b *ResponseBuffer) Reset() {
	if b.flushed {
		panic("rhttp: response already flushed")
	}

	b.buf.Reset()
	clear(b.header)
	b.status = http.StatusOK
	b.statusSet = false
}

// FlushError flushes the status, headers and buffered body to the underlying
// response. It is picked up by http.NewResponseController for explicit flushes.
func (b *ResponseBuffer) FlushError() error {
	if err := b.flush(); err != nil {
		return err
	}

	if fl, ok := b.resp.(http.Flusher); ok {
		fl.Flush()
	}

	return nil
}

// FlushBuffer performs the final, implicit flush. It finalizes the response: a
// second call returns [ErrAlreadyFinalized].
func (b *ResponseBuffer) FlushBuffer() error {
	if b.finalized {
		return ErrAlreadyFinalized
	}

	b.finalized = true

	return b.flush()
}

func (b *ResponseBuffer) flush() error {
	if !b.flushed {
		dst := b.resp.Header()
		for k, v := range b.header {
			dst[k] = v
		}

		b.resp.WriteHeader(b.status)
		b.flushed = true
	}

	if b.buf.Len() > 0 {
		if _, err := b.resp.Write(b.buf.Bytes()); err != nil {
			return errors.Wrap(err, "write buffered response")
		}

		b.buf.Reset()
	}

	return nil
}

// Free returns the underlying buffer to the pool. The ResponseBuffer must not be
// used after calling it.
func (b *ResponseBuffer) Free() {
	if b.buf == nil {
		return
	}

	bufPool.Put(b.buf)
	b.buf = nil
}

// Unwrap returns the underlying response writer, it supports the response
// controller of the standard library.
func (b *ResponseBuffer) Unwrap() http.ResponseWriter {
	return b.resp
}

var _ ResponseWriter = &ResponseBuffer{}
