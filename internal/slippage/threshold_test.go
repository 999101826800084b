package slippage

import (
	"math"
	"testing"

	"github.com/lugondev/clmm-relay/internal/errors"
)

func TestThreshold(t *testing.T) {
	tests := []struct {
		name        string
		expected    uint64
		bps         uint16
		isBaseInput bool
		want        uint64
	}{
		{
			name:        "minimum output at default tolerance",
			expected:    1_000_000,
			bps:         500,
			isBaseInput: true,
			want:        950_000,
		},
		{
			name:        "maximum input at default tolerance",
			expected:    1_000_000,
			bps:         500,
			isBaseInput: false,
			want:        1_050_000,
		},
		{
			name:        "minimum output at one bps",
			expected:    10_000,
			bps:         1,
			isBaseInput: true,
			want:        9_999,
		},
		{
			name:        "maximum input at one bps",
			expected:    10_000,
			bps:         1,
			isBaseInput: false,
			want:        10_001,
		},
		{
			name:        "division floors",
			expected:    999,
			bps:         500,
			isBaseInput: true,
			want:        949,
		},
		{
			name:        "tiny expected floors to zero",
			expected:    1,
			bps:         500,
			isBaseInput: true,
			want:        0,
		},
		{
			name:        "large expected widens without overflow",
			expected:    1 << 63,
			bps:         500,
			isBaseInput: false,
			want:        9684540638697514598,
		},
		{
			name:        "max expected narrows within range",
			expected:    math.MaxUint64,
			bps:         500,
			isBaseInput: true,
			want:        17524406870024074034,
		},
		{
			name:        "overflowing bound truncates to 64 bits",
			expected:    math.MaxUint64,
			bps:         500,
			isBaseInput: false,
			want:        922337203685477579,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Threshold(tt.expected, tt.bps, tt.isBaseInput)
			if got != tt.want {
				t.Errorf("Threshold(%d, %d, %v) = %d, want %d",
					tt.expected, tt.bps, tt.isBaseInput, got, tt.want)
			}
		})
	}
}

func TestThresholdDirection(t *testing.T) {
	const expected = 1_000_000
	for _, bps := range []uint16{1, 50, 250, 500} {
		minOut := Threshold(expected, bps, true)
		maxIn := Threshold(expected, bps, false)
		if minOut >= expected {
			t.Errorf("bps %d: minimum output %d not below expected %d", bps, minOut, expected)
		}
		if maxIn <= expected {
			t.Errorf("bps %d: maximum input %d not above expected %d", bps, maxIn, expected)
		}
	}
}

func TestValidateBps(t *testing.T) {
	tests := []struct {
		name    string
		bps     uint16
		wantErr bool
	}{
		{"one bps", 1, false},
		{"mid-range", 250, false},
		{"upper bound", 500, false},
		{"zero", 0, true},
		{"above upper bound", 501, true},
		{"far above upper bound", 10_000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBps(tt.bps)
			if tt.wantErr && !errors.Is(err, errors.ErrInvalidSlippage) {
				t.Errorf("ValidateBps(%d) = %v, want ErrInvalidSlippage", tt.bps, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateBps(%d) = %v, want nil", tt.bps, err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		stored  uint16
		want    uint16
		wantErr bool
	}{
		{"unset resolves to default", 0, DefaultBps, false},
		{"explicit value kept", 42, 42, false},
		{"upper bound kept", 500, 500, false},
		{"corrupted record rejected", 501, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.stored)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidSlippage) {
					t.Errorf("Resolve(%d) error = %v, want ErrInvalidSlippage", tt.stored, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%d) error = %v", tt.stored, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%d) = %d, want %d", tt.stored, got, tt.want)
			}
		})
	}
}
