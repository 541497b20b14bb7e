package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeIdentity(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected string
	}{
		{name: "単純な参照", from: "A", to: "B", expected: "1dbq"},
		{name: "逆順は別ID", from: "B", to: "A", expected: "1e2e"},
		{name: "プレイスID形式", from: "ChIJ_from", to: "ChIJ_to", expected: "svnkzu"},
		{name: "空の参照", from: "", to: "", expected: "19"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeIdentity(tt.from, tt.to))
		})
	}
}

func TestComputeIdentity_Deterministic(t *testing.T) {
	first := ComputeIdentity("ChIJN1t_tDeuEmsRUsoyG83frY4", "ChIJP3Sa8ziYEmsRUKgyFmh9AQM")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeIdentity("ChIJN1t_tDeuEmsRUsoyG83frY4", "ChIJP3Sa8ziYEmsRUKgyFmh9AQM"))
	}
	assert.NotEqual(t, first, ComputeIdentity("ChIJP3Sa8ziYEmsRUKgyFmh9AQM", "ChIJN1t_tDeuEmsRUsoyG83frY4"))
}
