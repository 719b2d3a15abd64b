package model

import (
	"testing"

	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()

	err := s.RequireFitted("Chain", "Transform")
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Transform", nf.Method)

	s.SetFitted(3, 10)
	assert.NoError(t, s.RequireFitted("Chain", "Transform"))
	f, n := s.GetDimensions()
	assert.Equal(t, 3, f)
	assert.Equal(t, 10, n)

	assert.NoError(t, s.RequireFeatures("Chain.Transform", 3))
	var dim *errors.DimensionError
	require.True(t, errors.As(s.RequireFeatures("Chain.Transform", 4), &dim))
	assert.Equal(t, 4, dim.Got)

	s.Reset()
	assert.False(t, s.IsFitted())
}
