package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOTLPExporter_EmptyEndpoint(t *testing.T) {
	exp, err := NewOTLPExporter(context.Background(), "  ")
	require.NoError(t, err)
	assert.Nil(t, exp)
}

func TestNewOTLPExporter_Configured(t *testing.T) {
	// 接続は最初のエクスポート時まで行われない
	exp, err := NewOTLPExporter(context.Background(), "http://127.0.0.1:4318/")
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.NoError(t, exp.Shutdown(context.Background()))
}
