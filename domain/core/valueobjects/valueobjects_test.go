package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "relationmap/pkg/errors"
)

func TestNewPosition(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		wantErr bool
	}{
		{name: "origin", x: 0, y: 0},
		{name: "news seed location", x: 2500, y: 2500},
		{name: "negative coordinates", x: -100.5, y: -200.75},
		{name: "NaN x", x: math.NaN(), y: 0, wantErr: true},
		{name: "infinite y", x: 0, y: math.Inf(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := NewPosition(tt.x, tt.y)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.x, pos.X())
			assert.Equal(t, tt.y, pos.Y())
		})
	}
}

func TestPosition_Translate(t *testing.T) {
	pos, err := NewPosition(100, 100)
	require.NoError(t, err)

	moved, err := pos.Translate(15, -5)
	require.NoError(t, err)

	assert.Equal(t, 115.0, moved.X())
	assert.Equal(t, 95.0, moved.Y())
	assert.False(t, pos.Equals(moved))
}

func TestParseRecordID(t *testing.T) {
	generated := NewRecordID()

	parsed, err := ParseRecordID(generated.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equals(generated))
	assert.False(t, parsed.IsZero())

	_, err = ParseRecordID("")
	assert.Error(t, err)

	_, err = ParseRecordID("not-a-uuid")
	assert.Error(t, err)
}
