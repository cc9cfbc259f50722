package serviceerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/firasabed78/culinary--academy/internal/serviceerr"
)

func TestAPIError(t *testing.T) {
	err := serviceerr.NewAPIError(http.StatusUnauthorized, "Could not validate credentials", serviceerr.ErrUnauthorized)

	assert.True(t, errors.Is(err, serviceerr.ErrUnauthorized))
	assert.False(t, errors.Is(err, serviceerr.ErrValidation))
	assert.Equal(t, "Could not validate credentials", err.Error())

	empty := serviceerr.NewAPIError(http.StatusInternalServerError, "", serviceerr.ErrNetwork)
	assert.Equal(t, "request failed with status 500", empty.Error())
}

func TestIsUnauthorized(t *testing.T) {
	err := fmt.Errorf("fetching identity: %w",
		serviceerr.NewAPIError(http.StatusUnauthorized, "", serviceerr.ErrUnauthorized))
	assert.True(t, serviceerr.IsUnauthorized(err))
	assert.False(t, serviceerr.IsUnauthorized(serviceerr.ErrNetwork))
}

func TestDetailOrFallback(t *testing.T) {
	withDetail := serviceerr.NewAPIError(http.StatusBadRequest, "Email already registered", serviceerr.ErrValidation)
	assert.Equal(t, "Email already registered", serviceerr.DetailOrFallback(withDetail, "fallback"))

	wrapped := fmt.Errorf("registering: %w", withDetail)
	assert.Equal(t, "Email already registered", serviceerr.DetailOrFallback(wrapped, "fallback"))

	assert.Equal(t, "fallback", serviceerr.DetailOrFallback(serviceerr.ErrNetwork, "fallback"))
	noDetail := serviceerr.NewAPIError(http.StatusBadGateway, "", serviceerr.ErrNetwork)
	assert.Equal(t, "fallback", serviceerr.DetailOrFallback(noDetail, "fallback"))
}
