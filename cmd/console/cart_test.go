package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"1=2", " 7 = 0", "1=5"})
	require.NoError(t, err)

	want := []assignment{
		{ProductID: 1, Quantity: 2},
		{ProductID: 7, Quantity: 0},
		{ProductID: 1, Quantity: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseAssignments() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAssignments_Invalid(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{name: "missing separator", arg: "12"},
		{name: "bad product id", arg: "x=1"},
		{name: "zero product id", arg: "0=1"},
		{name: "bad quantity", arg: "1=two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAssignments([]string{tt.arg})
			assert.Error(t, err)
		})
	}
}

func TestDash(t *testing.T) {
	assert.Equal(t, "-", dash(""))
	assert.Equal(t, "Pago", dash("Pago"))
}
