package errors

import (
	"fmt"
	"testing"

	"hypotest/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestGetCode_DomainErrors(t *testing.T) {
	assert.Equal(t, CodeInvalidInput, GetCode(core.NewSampleSizeError("baseline", 1)))
	assert.Equal(t, CodeDegenerateInput, GetCode(core.NewDegenerateInputError("zero spread")))
	assert.Equal(t, CodeNumericalInstability, GetCode(core.NewConvergenceError("series", 10)))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("boom")))
}

func TestWrap_KeepsClassification(t *testing.T) {
	err := Wrap(core.NewDegenerateInputError("zero spread"), "analysis failed")
	assert.Equal(t, CodeDegenerateInput, GetCode(err))
	assert.True(t, core.IsDegenerateInput(err))
	assert.Equal(t, "analysis failed: degenerate input: zero spread", err.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"invalid input", core.NewSampleSizeError("enhanced", 0), ExitInvalidInput},
		{"degenerate", fmt.Errorf("wrapped: %w", core.NewDegenerateInputError("x")), ExitInvalidInput},
		{"instability", core.NewConvergenceError("series", 1000), ExitInvalidInput},
		{"app invalid input", New(CodeInvalidInput, "cell B3 is not a number"), ExitInvalidInput},
		{"unsupported format", UnsupportedFormat("parquet"), ExitFailure},
		{"config", ConfigInvalid("bad level"), ExitFailure},
		{"io", fmt.Errorf("open data.csv: no such file"), ExitFailure},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), tt.name)
	}
}
