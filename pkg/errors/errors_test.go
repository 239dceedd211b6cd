package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.ErrCodeInternal, "unexpected failure"},
		{"not found", errors.ErrCodeNotFound, "no litigation graph for Acme"},
		{"validation", errors.ErrCodeValidation, "query must not be empty"},
		{"store", errors.ErrCodeStoreUnavailable, "neo4j unreachable"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.NotEmpty(t, ae.Stack)
		})
	}
}

func TestAppError_ErrorFormat(t *testing.T) {
	t.Parallel()

	plain := errors.New(errors.ErrCodeNotFound, "missing")
	assert.Equal(t, "[COMMON_005] missing", plain.Error())

	detailed := plain.WithDetail("name=Acme")
	assert.Equal(t, "[COMMON_005] missing: name=Acme", detailed.Error())

	wrapped := errors.Wrap(stderrors.New("dial tcp: refused"), errors.ErrCodeStoreUnavailable, "plaintiff lookup failed")
	assert.Equal(t, "[SRC_005] plaintiff lookup failed: dial tcp: refused", wrapped.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.ErrCodeInternal, "nothing"))
}

func TestWrap_PreservesCodeWhenUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeStoreUnavailable, "down")
	outer := errors.Wrap(inner, errors.CodeUnknown, "context")
	assert.Equal(t, errors.ErrCodeStoreUnavailable, outer.Code)
}

func TestWrap_ChainIsTraversable(t *testing.T) {
	t.Parallel()

	root := stderrors.New("connection reset")
	ae := errors.Wrap(root, errors.ErrCodeDataSourceUnavailable, "search failed")
	outer := fmt.Errorf("handler: %w", ae)

	assert.True(t, stderrors.Is(outer, root))

	var target *errors.AppError
	require.True(t, stderrors.As(outer, &target))
	assert.Equal(t, errors.ErrCodeDataSourceUnavailable, target.Code)
}

func TestWithDetail_DoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	orig := errors.NotFound("x")
	_ = orig.WithDetail("d")
	assert.Empty(t, orig.Detail)

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithDetail("d"))
	assert.Nil(t, nilErr.WithCause(stderrors.New("c")))
}

func TestTaxonomyIsDistinct(t *testing.T) {
	t.Parallel()

	notFound := errors.NotFound("no plaintiff")
	upstream := errors.New(errors.ErrCodeDataSourceUnavailable, "503 from upstream")
	malformed := errors.New(errors.ErrCodeDataSourceParseError, "missing patents key")
	store := errors.StoreUnavailable(stderrors.New("refused"), "store down")

	assert.True(t, errors.IsNotFound(notFound))
	assert.False(t, errors.IsUpstreamUnavailable(notFound))
	assert.False(t, errors.IsStoreUnavailable(notFound))

	assert.True(t, errors.IsUpstreamUnavailable(upstream))
	assert.False(t, errors.IsNotFound(upstream))

	assert.True(t, errors.IsMalformedResponse(malformed))
	assert.False(t, errors.IsUpstreamUnavailable(malformed))

	assert.True(t, errors.IsStoreUnavailable(store))
	assert.False(t, errors.IsNotFound(store))
}

func TestIsCode_WalksNestedAppErrors(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeStoreUnavailable, "down")
	outer := errors.Wrap(inner, errors.ErrCodeInternal, "graph failed")

	assert.True(t, errors.IsCode(outer, errors.ErrCodeInternal))
	assert.True(t, errors.IsCode(outer, errors.ErrCodeStoreUnavailable))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeNotFound))
	assert.False(t, errors.IsCode(stderrors.New("plain"), errors.ErrCodeInternal))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeInternal))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeConflict, errors.GetCode(errors.Conflict("dup")))
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusServiceUnavailable, errors.StoreUnavailable(nil, "x").HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, errors.Validation("name", "required").HTTPStatus())
	assert.Equal(t, http.StatusConflict, errors.New(errors.ErrCodeUsernameExists, "dup").HTTPStatus())
}

func TestIsConflictAndValidation(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsConflict(errors.New(errors.ErrCodeEmailExists, "dup")))
	assert.True(t, errors.IsValidation(errors.InvalidParam("bad")))
	assert.True(t, errors.IsValidation(errors.Validation("name", "required")))
	assert.False(t, errors.IsValidation(errors.Internal("boom")))
}

//Personal.AI order the ending
