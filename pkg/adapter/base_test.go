package adapter

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/hurley/pkg/core"
)

func TestSliceIter(t *testing.T) {
	iter := NewSliceIter([]core.Row{{int64(1)}, {int64(2)}})

	row, err := iter.Next()
	require.NoError(t, err)
	assert.Equal(t, core.Row{int64(1)}, row)

	row, err = iter.Next()
	require.NoError(t, err)
	assert.Equal(t, core.Row{int64(2)}, row)

	_, err = iter.Next()
	assert.ErrorIs(t, err, io.EOF)

	// Exhaustion is sticky.
	_, err = iter.Next()
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, iter.Close())
}

func TestSliceIterEmpty(t *testing.T) {
	iter := NewSliceIter(nil)
	_, err := iter.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeArgs(t *testing.T) {
	type args struct {
		Comma string `mapstructure:"comma"`
		Depth int    `mapstructure:"depth"`
	}

	var out args
	require.NoError(t, DecodeArgs(map[string]any{"comma": ";", "depth": 3}, &out))
	assert.Equal(t, args{Comma: ";", Depth: 3}, out)

	// Unknown keys are ignored, nil args decode to the zero value.
	out = args{}
	require.NoError(t, DecodeArgs(map[string]any{"other": true}, &out))
	assert.Equal(t, args{}, out)

	out = args{}
	require.NoError(t, DecodeArgs(nil, &out))
	assert.Equal(t, args{}, out)
}
