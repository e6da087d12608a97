package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/domain"
)

func TestCheck_ReportsFailedFields(t *testing.T) {
	err := Check(domain.Book{Author: "Octavia Butler", TotalCopies: -1})
	require.Error(t, err)

	fields, ok := err.(FieldErrors)
	require.True(t, ok)
	assert.Equal(t, "required", fields["Title"])
	assert.Equal(t, "gte", fields["TotalCopies"])
	assert.Equal(t, "Title required, TotalCopies gte", err.Error())
}

func TestCheck_PassesValidStruct(t *testing.T) {
	assert.NoError(t, Check(domain.Book{
		Title:       "Kindred",
		Author:      "Octavia Butler",
		TotalCopies: 3,
	}))
}
