package txn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		name          string
		paymentMethod string
		want          string
	}{
		{name: "nagad", paymentMethod: "Nagad", want: "NGD"},
		{name: "bkash", paymentMethod: "bKash", want: "BKS"},
		{name: "unknown method falls back to bkash", paymentMethod: "Stripe", want: "BKS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prefix(tt.paymentMethod))
		})
	}
}

func TestGenerate(t *testing.T) {
	ref := Generate("bKash")

	assert.True(t, strings.HasPrefix(ref, "BKS"))
	assert.Greater(t, len(ref), len("BKS")+suffixLen)
	assert.Equal(t, strings.ToUpper(ref), ref)
}

func TestGenerate_MostlyUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		seen[Generate("Nagad")] = struct{}{}
	}
	assert.Greater(t, len(seen), 90)
}
