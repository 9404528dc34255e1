package rhttp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
)

// bodyKind enumerates the closed set of response body variants. The encoding
// switch in Send is exhaustive over it.
type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyEmpty
	bodyText
	bodyJSON
	bodyBytes
	bodyStream
)

// Body is the value a handler returns to describe the response. The zero Body
// means the handler (or a wrapping middleware) produced the response itself and
// nothing is sent automatically. The other variants are encoded by [Send].
type Body struct {
	kind   bodyKind
	text   string
	blob   []byte
	value  any
	stream io.Reader
}

// NoContent returns the body variant that results in a 204 response with an
// empty body and no content type.
func NoContent() Body { return Body{kind: bodyEmpty} }

// Text returns a plain string body. It is written as-is and no Content-Type is
// defaulted for it.
func Text(s string) Body { return Body{kind: bodyText, text: s} }

// Textf returns a formatted string body.
func Textf(format string, args ...any) Body { return Text(fmt.Sprintf(format, args...)) }

// JSON returns a body that is serialized as JSON. Any JSON-serializable value
// works, including bare numbers.
func JSON(v any) Body { return Body{kind: bodyJSON, value: v} }

// Bytes returns a binary buffer body, defaulting to an octet-stream content type.
func Bytes(b []byte) Body { return Body{kind: bodyBytes, blob: b} }

// Stream returns a body that pipes the reader into the response without a
// Content-Length. The reader is closed after the copy when it implements
// io.Closer.
func Stream(r io.Reader) Body { return Body{kind: bodyStream, stream: r} }

// IsZero reports whether the body is the zero variant that suppresses the
// automatic response.
func (b Body) IsZero() bool { return b.kind == bodyNone }

// Send encodes the body onto the response with the given status code. The
// Content-Type is only defaulted when the caller has not set one, and sized
// variants carry an explicit Content-Length. Send writes into the buffered
// response, the single finalize happens at the serve adapter.
func Send(w ResponseWriter, status int, body Body) error {
	switch body.kind {
	case bodyNone:
		return nil

	case bodyEmpty:
		w.WriteHeader(status)

		return nil

	case bodyText:
		return sendBlob(w, status, []byte(body.text), "")

	case bodyJSON:
		buf, err := json.Marshal(body.value)
		if err != nil {
			return errors.Wrap(err, "serialize JSON response body")
		}

		return sendBlob(w, status, buf, "application/json; charset=utf-8")

	case bodyBytes:
		return sendBlob(w, status, body.blob, "application/octet-stream")

	case bodyStream:
		defaultContentType(w, "application/octet-stream")
		w.WriteHeader(status)

		if closer, ok := body.stream.(io.Closer); ok {
			defer closer.Close()
		}

		if _, err := io.Copy(w, body.stream); err != nil {
			return errors.Wrap(err, "pipe stream response body")
		}

		return nil

	default:
		return errors.Newf("unknown response body kind: %d", body.kind)
	}
}

func sendBlob(w ResponseWriter, status int, buf []byte, contentType string) error {
	if contentType != "" {
		defaultContentType(w, contentType)
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)

	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "write response body")
	}

	return nil
}

func defaultContentType(w ResponseWriter, contentType string) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", contentType)
	}
}

// SendError converts an error into a response. Errors carrying a client-facing
// status code are sent with that code and their message. Anything else becomes a
// 500 whose body is the standard status text, or the full error with stack trace
// in development mode. Stack traces never leave development mode.
func SendError(w ResponseWriter, err error, development bool) {
	if red, ok := AsRedirect(err); ok {
		w.Header().Set("Location", red.Location())
		w.WriteHeader(red.Status())

		return
	}

	if herr, ok := asError(err); ok && herr.Code() != CodeUnknown {
		_ = Send(w, int(herr.Code()), Text(herr.Message()))

		return
	}

	if development {
		_ = Send(w, http.StatusInternalServerError, Textf("%+v", err))

		return
	}

	_ = Send(w, http.StatusInternalServerError, Text(http.StatusText(http.StatusInternalServerError)))
}

// NotFound writes the default 404 response with the body "Not Found".
func NotFound(w ResponseWriter) {
	_ = Send(w, http.StatusNotFound, Text("Not Found"))
}
