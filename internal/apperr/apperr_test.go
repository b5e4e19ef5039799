package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindBadRequest, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
		{Kind(0), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.kind.Status(), tc.kind.String())
	}
}

func TestAsFindsWrappedError(t *testing.T) {
	err := fmt.Errorf("delete comment: %w", Forbidden("Forbidden"))

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindForbidden, appErr.Kind)
	assert.Equal(t, "Forbidden", appErr.Msg)
	assert.True(t, IsKind(err, KindForbidden))
	assert.False(t, IsKind(err, KindNotFound))
}

func TestAsIgnoresPlainErrors(t *testing.T) {
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("list articles", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
