package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/hurley/pkg/core"
)

func TestSupports(t *testing.T) {
	assert.True(t, Supports("pg://public.customers"))
	assert.True(t, Supports("pg://customers"))
	assert.False(t, Supports("mem://people"))
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), "pg://customers", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dsn")
}

func TestSplitQualified(t *testing.T) {
	schema, table := splitQualified("sales.customers")
	assert.Equal(t, "sales", schema)
	assert.Equal(t, "customers", table)

	schema, table = splitQualified("customers")
	assert.Equal(t, "public", schema)
	assert.Equal(t, "customers", table)

	// Only the first dot is the schema separator.
	schema, table = splitQualified("a.b.c")
	assert.Equal(t, "a", schema)
	assert.Equal(t, "b.c", table)
}

func TestMapDataType(t *testing.T) {
	tests := []struct {
		dataType string
		want     string
	}{
		{"integer", core.TypeInteger},
		{"bigint", core.TypeInteger},
		{"smallint", core.TypeInteger},
		{"numeric", core.TypeReal},
		{"double precision", core.TypeReal},
		{"boolean", core.TypeBoolean},
		{"date", core.TypeDate},
		{"time without time zone", core.TypeTime},
		{"time with time zone", core.TypeTime},
		{"timestamp without time zone", core.TypeTimestamp},
		{"timestamp with time zone", core.TypeTimestamp},
		{"bytea", core.TypeBlob},
		{"character varying", core.TypeText},
		{"text", core.TypeText},
		{"jsonb", core.TypeText},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mapDataType(tt.dataType), tt.dataType)
	}
}
