package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "relationmap/pkg/errors"
)

type sample struct {
	ID    string   `json:"id" validate:"required,uuid"`
	X     *float64 `json:"x" validate:"omitempty,finite"`
	Color string   `json:"color" validate:"omitempty,tagcolor"`
	Tags  []string `json:"tags" validate:"omitempty,dive,uuid"`
}

func TestValidateStruct(t *testing.T) {
	nan := math.NaN()
	ok := 12.5
	validID := "0b9c8e5e-3c39-4b7e-a0b5-6a7c3f5f1a11"

	tests := []struct {
		name      string
		input     sample
		wantErr   bool
		wantField string
	}{
		{name: "minimal valid", input: sample{ID: validID}},
		{name: "all fields valid", input: sample{ID: validID, X: &ok, Color: "#ff8800", Tags: []string{validID}}},
		{name: "named color", input: sample{ID: validID, Color: "rebeccapurple"}},
		{name: "rgb color", input: sample{ID: validID, Color: "rgb(10,20,30)"}},
		{name: "missing id", input: sample{}, wantErr: true, wantField: "id"},
		{name: "non finite x", input: sample{ID: validID, X: &nan}, wantErr: true, wantField: "x"},
		{name: "bad color", input: sample{ID: validID, Color: "#12"}, wantErr: true, wantField: "color"},
		{name: "bad tag id", input: sample{ID: validID, Tags: []string{"nope"}}, wantErr: true, wantField: "tags[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
			fields := pkgerrors.GetAppError(err).Details["fields"].(map[string]interface{})
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("0b9c8e5e-3c39-4b7e-a0b5-6a7c3f5f1a11", "uuid"))
	err := ValidateVar("abc", "uuid")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNowSortable_IsMonotonicAsString(t *testing.T) {
	a := NowSortable()
	b := NowSortable()
	assert.LessOrEqual(t, a, b)
}
