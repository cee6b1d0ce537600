package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimblesteps/nimblesteps-go/errs"
)

func TestVerifyEmptyPayload(t *testing.T) {
	_, err := Verify(nil)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.CodePayloadTooSmall))
}

func TestVerifyZeroParticipants(t *testing.T) {
	n, err := Verify([]byte{0})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestVerifyParticipantCountTooHigh(t *testing.T) {
	_, err := Verify([]byte{65})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.CodeParticipantCountTooHigh))
}

func TestVerifyConnectStateParticipant(t *testing.T) {
	payload := []byte{1, 0x80 | 3, 0x01}
	n, err := Verify(payload)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVerifyZeroOctetParticipantIsAllowed(t *testing.T) {
	payload := []byte{1, 2, 0}
	n, err := Verify(payload)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVerifyParticipantIDTooHigh(t *testing.T) {
	payload := []byte{1, 9, 0}
	_, err := Verify(payload)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.CodeParticipantIDTooHigh))
}

func TestVerifyPerStepSizeTooHigh(t *testing.T) {
	payload := []byte{1, 2, 129}
	_, err := Verify(payload)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.CodePerStepSizeInvalid))
}

func TestVerifyTruncatedPayload(t *testing.T) {
	cases := map[string][]byte{
		"missing id":         {1},
		"missing octetcount": {1, 2},
		"missing data":       {1, 2, 2, 0xAA},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Verify(payload)
			require.Error(t, err)
			assert.True(t, errs.IsCode(err, errs.CodePayloadTruncated))
		})
	}
}

func TestVerifyMultipleParticipants(t *testing.T) {
	payload := []byte{
		2,
		1, 2, 0xAA, 0xBB,
		0x80 | 2, 0x01,
	}
	n, err := Verify(payload)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
