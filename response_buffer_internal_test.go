package rhttp

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func BenchmarkResponseBuffer(b *testing.B) {
	var resp http.ResponseWriter

	for _, dat := range [][]byte{
		make([]byte, 1024),    // 1KiB
		make([]byte, 1024*64), // 64KiB
	} {
		b.Run("buffered-"+strconv.Itoa(len(dat)), func(b *testing.B) {
			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				resp = httptest.NewRecorder()
				resp = newBufferResponse(resp, -1)
				written, err := resp.Write(dat)
				require.NoError(b, err, "write should succeed")
				require.NotZero(b, written, "should have written bytes")

				rbuf, _ := resp.(*ResponseBuffer)
				err = rbuf.FlushBuffer()
				require.NoError(b, err, "implicit flush should succeed")

				rbuf.Free()
			}
		})
	}
}

func TestBufferedWrites(t *testing.T) {
	t.Run("limiting", func(t *testing.T) {
		t.Run("should limit writes exactly", func(t *testing.T) {
			rec := httptest.NewRecorder()
			wrt := newBufferResponse(rec, 1)
			n, err := wrt.Write([]byte{0x01})
			require.NoError(t, err, "should not limit first write")
			require.Equal(t, 1, n, "should have written 1 byte")

			n, err = wrt.Write([]byte{0x02})
			require.Equal(t, 0, n, "should not write second byte")
			require.Error(t, err, "should have an error on second write")
			require.ErrorIs(t, err, ErrBufferFull, "should be buffer full error")
			assert.Equal(t, 0, rec.Body.Len(), "nothing should be flushed to underlying yet")
		})

		t.Run("should limit writes when writing past", func(t *testing.T) {
			rec := httptest.NewRecorder()
			wrt := newBufferResponse(rec, 1)
			n, err := wrt.Write([]byte{0x01, 0x02})
			require.Equal(t, 0, n)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrBufferFull, "should be buffer full error")
			assert.Equal(t, 0, rec.Body.Len(), "no flush should occur when limit is exceeded")
		})

		t.Run("should not limit writes when passed -1", func(t *testing.T) {
			rec := httptest.NewRecorder()
			wrt := newBufferResponse(rec, -1)
			n, err := wrt.Write([]byte{0x01, 0x02})
			require.NoError(t, err)
			require.Equal(t, 2, n)
			assert.Equal(t, 0, rec.Body.Len(), "nothing should be flushed yet")
		})

		t.Run("should flush correctly", func(t *testing.T) {
			rec := httptest.NewRecorder()
			fwr := newBufferResponse(rec, 2)

			for i := 0; i < 3; i++ {
				n, err := fwr.Write([]byte{0x01, 0x02})
				require.NoError(t, err)
				require.Equal(t, 2, n)

				require.NoError(t, fwr.FlushError(), "flush should succeed")
			}

			assert.Equal(t, []byte{0x01, 0x02, 0x01, 0x02, 0x01, 0x02}, rec.Body.Bytes())
		})
	})

	t.Run("should unwrap correctly", func(t *testing.T) {
		rec := httptest.NewRecorder()
		fwr := newBufferResponse(rec, 0)
		require.Equal(t, rec, fwr.Unwrap())
	})

	t.Run("should pass on flush errors", func(t *testing.T) {
		rec := httptest.NewRecorder()
		wr := failingResponseWriter{rec}
		fwr := newBufferResponse(wr, -1)
		_, _ = fmt.Fprint(fwr, "foo") // triggers underlying write on flush
		err := fwr.FlushError()
		require.Error(t, err)
		assert.Regexp(t, "write fail", err.Error(), "error should contain 'write fail'")
	})

	t.Run("reset behaviour", func(t *testing.T) {
		t.Run("should allow re-writing after reset", func(t *testing.T) {
			rec := httptest.NewRecorder()
			resp := newBufferResponse(rec, -1)

			n, err := fmt.Fprintf(resp, "foo")
			require.NoError(t, err)
			require.Equal(t, 3, n)

			resp.Reset()

			n, err = fmt.Fprintf(resp, "bar")
			require.NoError(t, err)
			require.Equal(t, 3, n)

			require.NoError(t, resp.FlushError())
			assert.Equal(t, "bar", rec.Body.String())
		})

		t.Run("should allow re-writing headers", func(t *testing.T) {
			rec := httptest.NewRecorder()
			resp := newBufferResponse(rec, -1)
			resp.Header().Set("X-Before", "before")
			resp.Reset()
			resp.Header().Set("X-After", "after")

			require.NoError(t, resp.FlushError())
			assert.Equal(t, "after", rec.Header().Get("X-After"))
			assert.Empty(t, rec.Header().Values("X-Before"))
		})

		t.Run("should allow re-writing status code", func(t *testing.T) {
			rec := httptest.NewRecorder()
			resp := newBufferResponse(rec, -1)
			resp.WriteHeader(http.StatusCreated)

			resp.Reset()
			resp.WriteHeader(http.StatusAccepted)

			require.NoError(t, resp.FlushError())
			assert.Equal(t, http.StatusAccepted, rec.Code)
		})

		t.Run("should reset to default status of 200", func(t *testing.T) {
			rec := httptest.NewRecorder()
			resp := newBufferResponse(rec, -1)
			resp.WriteHeader(http.StatusCreated)
			resp.Reset()

			require.NoError(t, resp.FlushError())
			assert.Equal(t, 200, rec.Code)
		})

		t.Run("should not allow reset after explicit flush", func(t *testing.T) {
			rec := httptest.NewRecorder()
			resp := newBufferResponse(rec, -1)
			rc := http.NewResponseController(resp)
			require.NoError(t, rc.Flush())

			defer func() {
				r := recover()
				require.NotNil(t, r, "expected a panic on Reset")
				require.Contains(t, fmt.Sprintf("%v", r), "already flushed")
			}()
			resp.Reset()
		})

		t.Run("should reset limit after reset", func(t *testing.T) {
			rec := httptest.NewRecorder()
			resp := newBufferResponse(rec, 2)

			for i := 0; i < 3; i++ {
				resp.Reset()
				n, err := resp.Write([]byte("fo"))
				require.NoError(t, err)
				require.Equal(t, 2, n)
			}

			require.NoError(t, resp.FlushError())
			assert.Equal(t, "fo", rec.Body.String())
		})
	})

	t.Run("status code handling", func(t *testing.T) {
		t.Run("first explicit status wins", func(t *testing.T) {
			rec := httptest.NewRecorder()
			resp := newBufferResponse(rec, -1)
			resp.WriteHeader(http.StatusCreated)
			resp.WriteHeader(http.StatusAccepted)

			require.Equal(t, http.StatusCreated, resp.Status())
			require.NoError(t, resp.FlushBuffer())
			assert.Equal(t, http.StatusCreated, rec.Code)
		})

		t.Run("defaults to 200", func(t *testing.T) {
			resp := newBufferResponse(httptest.NewRecorder(), -1)
			require.Equal(t, http.StatusOK, resp.Status())
		})
	})

	t.Run("finalize behaviour", func(t *testing.T) {
		t.Run("should finalize at most once", func(t *testing.T) {
			rec := httptest.NewRecorder()
			resp := newBufferResponse(rec, -1)
			_, _ = fmt.Fprint(resp, "once")

			require.NoError(t, resp.FlushBuffer())
			require.ErrorIs(t, resp.FlushBuffer(), ErrAlreadyFinalized)
			assert.Equal(t, "once", rec.Body.String())
		})

		t.Run("flushed is observable", func(t *testing.T) {
			resp := newBufferResponse(httptest.NewRecorder(), -1)
			require.False(t, resp.Flushed())
			require.NoError(t, resp.FlushError())
			require.True(t, resp.Flushed())
		})
	})
}

type failingResponseWriter struct {
	http.ResponseWriter
}

func (f failingResponseWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write fail")
}
