package flow_helpers

import (
	"testing"

	"github.com/onflow/cadence"
	"github.com/onflow/flow-go-sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEventFields(t *testing.T) {
	owner := cadence.NewAddress(flow.HexToAddress("0x2"))
	values := []cadence.Value{cadence.NewUInt64(7), owner}

	b, err := EncodeValues(values)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"UInt64"`)
	assert.Contains(t, string(b), `"Address"`)

	decoded, err := DecodeValues(b)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, cadence.NewUInt64(7), decoded[0])
	assert.Equal(t, owner, decoded[1])
}

func TestDecodeValuesRejectsGarbage(t *testing.T) {
	_, err := DecodeValues([]byte("not json"))
	assert.Error(t, err)
}
