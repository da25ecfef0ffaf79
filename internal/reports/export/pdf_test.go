package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(testDescriptor(), testRows(), time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output should start with the pdf magic")
}

func TestBuildPDFEmptyRows(t *testing.T) {
	data, err := BuildPDF(testDescriptor(), nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "empty report should still render")
}
