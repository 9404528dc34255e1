package rhttp_test

import (
	"net/http"
	"testing"

	"github.com/advdv/rhttp"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	err1 := rhttp.NewError(rhttp.CodeBadRequest, errors.New("foo"))
	require.Equal(t, rhttp.Code(400), err1.Code())
	require.Equal(t, rhttp.CodeBadRequest, rhttp.CodeOf(err1))
	require.Equal(t, "Bad Request: foo", err1.Error())
	require.Equal(t, "foo", err1.Message())

	require.Equal(t, rhttp.CodeUnknown, rhttp.CodeOf(errors.New("bar")))
	require.Equal(t, "Unknown: rab", rhttp.NewError(900, errors.New("rab")).Error())
}

func TestErrorWrapped(t *testing.T) {
	inner := rhttp.NewErrorf(rhttp.CodeUnprocessableEntity, "bad shape")
	wrapped := errors.Wrap(inner, "while validating")

	require.Equal(t, rhttp.CodeUnprocessableEntity, rhttp.CodeOf(wrapped), "code should survive wrapping")
}

func TestErrorMeta(t *testing.T) {
	base := rhttp.NewErrorf(rhttp.CodeBadRequest, "invalid JSON body")
	withMeta := base.WithMeta("parse_error", "unexpected end of input")

	assert.Nil(t, base.Meta(), "original error should be unchanged")
	require.Equal(t, "unexpected end of input", withMeta.Meta()["parse_error"])
	require.Equal(t, base.Message(), withMeta.Message())
}

func TestRedirect(t *testing.T) {
	red := rhttp.NewRedirect("/elsewhere")
	require.Equal(t, http.StatusSeeOther, red.Status())
	require.Equal(t, "/elsewhere", red.Location())

	got, ok := rhttp.AsRedirect(errors.Wrap(red, "handler gave up"))
	require.True(t, ok, "redirect should be found through wrapping")
	require.Equal(t, red, got)

	perm := rhttp.NewRedirect("/moved", http.StatusMovedPermanently)
	require.Equal(t, http.StatusMovedPermanently, perm.Status())

	_, ok = rhttp.AsRedirect(errors.New("not a redirect"))
	require.False(t, ok)
}
