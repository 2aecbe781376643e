package errx_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testRegistry = errx.NewRegistry("TEST")
	codeMissing  = testRegistry.Register("MISSING", errx.TypeNotFound, http.StatusNotFound, "missing")
	codeBroken   = testRegistry.Register("BROKEN", errx.TypeInternal, http.StatusInternalServerError, "broken")
)

func TestRegistryPrefixesCodes(t *testing.T) {
	assert.Equal(t, "TEST_MISSING", codeMissing.Code)

	again := testRegistry.Register("MISSING", errx.TypeConflict, http.StatusConflict, "other")
	assert.Same(t, codeMissing, again)
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("lookup: %w", testRegistry.NewWithMessage(codeMissing, "account 7 missing"))

	assert.True(t, errors.Is(err, testRegistry.New(codeMissing)))
	assert.False(t, errors.Is(err, testRegistry.New(codeBroken)))
	assert.True(t, errx.HasCode(err, codeMissing))
}

func TestHasCodeWalksWrappedErrors(t *testing.T) {
	inner := testRegistry.New(codeMissing)
	outer := testRegistry.NewWithCause(codeBroken, inner)

	assert.True(t, errx.HasCode(outer, codeBroken))
	assert.True(t, errx.HasCode(outer, codeMissing))
	assert.False(t, errx.HasCode(errors.New("plain"), codeMissing))
}

func TestWrapPreservesRegisteredCode(t *testing.T) {
	wrapped := errx.Wrap(testRegistry.New(codeMissing), "while loading", errx.TypeInternal)

	require.NotNil(t, wrapped)
	assert.Equal(t, codeMissing.Code, wrapped.Code)
	assert.Equal(t, http.StatusNotFound, wrapped.HTTPStatus)
	assert.Nil(t, errx.Wrap(nil, "noop", errx.TypeInternal))
}

func TestPublicHidesCauseAndInternalDetails(t *testing.T) {
	err := testRegistry.NewWithCause(codeBroken, errors.New("pq: connection refused")).
		WithDetail("dsn", "postgres://secret")

	resp := err.Public("req-1")
	assert.Equal(t, "TEST_BROKEN", resp.Code)
	assert.Equal(t, "broken", resp.Message)
	assert.Nil(t, resp.Details)
	assert.Equal(t, "req-1", resp.RequestID)

	notFound := testRegistry.New(codeMissing).WithDetail("id", 7)
	assert.Equal(t, map[string]any{"id": 7}, notFound.Public("").Details)
}

func TestFromWrapsPlainErrors(t *testing.T) {
	e := errx.From(errors.New("boom"))
	assert.Equal(t, errx.TypeInternal, e.Type)
	assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus)
}
