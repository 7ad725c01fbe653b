package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		want    string
	}{
		{
			name:    "s3 locator with underscores and extension",
			locator: "s3://policy-docs/Keycare_Policy_Booklet.pdf",
			want:    "Keycare Policy Booklet",
		},
		{
			name:    "nested key",
			locator: "s3://policy-docs/2024/motor_legal_protection.pdf",
			want:    "Motor Legal Protection",
		},
		{
			name:    "bare file name",
			locator: "terms_of_cover.txt",
			want:    "Terms Of Cover",
		},
		{
			name:    "already clean",
			locator: "s3://b/Handbook.pdf",
			want:    "Handbook",
		},
		{
			name:    "multi-byte leading rune stays valid",
			locator: "s3://docs/überführung_policy.pdf",
			want:    "Überführung Policy",
		},
		{
			name:    "empty",
			locator: "",
			want:    "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Label(tc.locator))
		})
	}
}

func TestNormalizeDedupesPreservingOrder(t *testing.T) {
	got := Normalize([]string{
		"s3://docs/Keycare_Policy_Booklet.pdf",
		"s3://docs/Windscreen_Cover.pdf",
		"s3://docs/Keycare_Policy_Booklet.pdf",
		"",
	})

	assert.Equal(t, []Citation{
		{Label: "Keycare Policy Booklet", Locator: "s3://docs/Keycare_Policy_Booklet.pdf"},
		{Label: "Windscreen Cover", Locator: "s3://docs/Windscreen_Cover.pdf"},
	}, got)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	in := []string{"s3://d/a_b.pdf", "s3://d/c_d.pdf"}

	first := Normalize(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Normalize(in))
	}
}
