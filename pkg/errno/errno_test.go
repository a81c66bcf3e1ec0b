package errno

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"nil", nil, OK.Code, OK.Message},
		{"plain errno", ErrUnluckyIndex, ErrUnluckyIndex.Code, ErrUnluckyIndex.Message},
		{"pointer errno", &ErrRootNotSet, ErrRootNotSet.Code, ErrRootNotSet.Message},
		{"wrapped errno", fmt.Errorf("derive m/0': %w", ErrHardenedRequiresPrivateKey),
			ErrHardenedRequiresPrivateKey.Code, "derive m/0': hardened derivation requires a private key"},
		{"foreign error", errors.New("boom"), InternalServerError.Code, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := Decode(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestErrorsIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrInvalidSeedLength))
	assert.True(t, errors.Is(err, ErrInvalidSeedLength))
	assert.False(t, errors.Is(err, ErrInvalidScalar))
}
