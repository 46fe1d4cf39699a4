package record

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientCreateAndList(t *testing.T) {
	repo := NewPatientRepository(newTestStore(t))
	ctx := context.Background()

	first := testPatient("pat1", "doc1")
	second := testPatient("pat2", "doc2")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	patients, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, first, patients[0])
	assert.Equal(t, second, patients[1])
}

func TestPatientListEmpty(t *testing.T) {
	repo := NewPatientRepository(newTestStore(t))

	patients, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, patients)
	assert.Empty(t, patients)
}
