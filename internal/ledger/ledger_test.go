package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertNoJSONKey marshals the payload and asserts the key is absent
// entirely, not present as null.
func assertNoJSONKey(t *testing.T, payload interface{}, key string) {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	_, present := m[key]
	assert.False(t, present, "key %q must be omitted from the payload, got %s", key, data)
}

func allRoutingIDs() RoutingIDs {
	return RoutingIDs{
		VendorID:   "V-77",
		AccountID:  "A-12",
		ContactID:  "C-55",
		BusinessID: "B-9",
	}
}

func TestTranslate_Dispatch(t *testing.T) {
	tests := []struct {
		target Target
	}{
		{TargetQuickBooks},
		{TargetXero},
		{TargetWave},
		{TargetFreshBooks},
	}

	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			payload, err := Translate(tt.target, sampleInvoice(), allRoutingIDs(), DefaultProviderDefaults())
			require.NoError(t, err)
			assert.Equal(t, tt.target, payload.Ledger())
		})
	}
}

func TestTranslate_UnsupportedTarget(t *testing.T) {
	_, err := Translate(Target("sage"), sampleInvoice(), allRoutingIDs(), DefaultProviderDefaults())

	var translationErr *TranslationError
	require.ErrorAs(t, err, &translationErr)
	assert.Contains(t, translationErr.Reason, "unsupported")
}

func TestTranslate_Deterministic(t *testing.T) {
	for _, target := range []Target{TargetQuickBooks, TargetXero, TargetWave, TargetFreshBooks} {
		t.Run(string(target), func(t *testing.T) {
			first, err := Translate(target, sampleInvoice(), allRoutingIDs(), DefaultProviderDefaults())
			require.NoError(t, err)
			second, err := Translate(target, sampleInvoice(), allRoutingIDs(), DefaultProviderDefaults())
			require.NoError(t, err)

			firstJSON, err := json.Marshal(first)
			require.NoError(t, err)
			secondJSON, err := json.Marshal(second)
			require.NoError(t, err)
			assert.Equal(t, firstJSON, secondJSON, "identical input must produce byte-identical payloads")
		})
	}
}

func TestMoneyRendering(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0.00"},
		{1, "1.00"},
		{150, "150.00"},
		{1234.5, "1234.50"},
		{99.999, "100.00"},
		{0.1, "0.10"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, money(tt.value))
	}
}
