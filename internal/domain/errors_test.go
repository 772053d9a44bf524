package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Propiedades-api/internal/domain"
)

func TestIsBusinessError_Envuelto(t *testing.T) {
	err := fmt.Errorf("aprobar solicitud: %w", domain.ErrInsufficientStock)
	assert.True(t, domain.IsBusinessError(err))
	assert.True(t, domain.IsBusinessError(domain.ErrAlreadyIssued))
}

func TestIsBusinessError_ErrorDeInfraestructura(t *testing.T) {
	assert.False(t, domain.IsBusinessError(errors.New("dial tcp: connection refused")))
	assert.False(t, domain.IsBusinessError(nil))
}
