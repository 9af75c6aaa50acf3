package units_test

import (
	"testing"

	"github.com/lsolve-labs/lsolve/pkg/units"
	"github.com/stretchr/testify/assert"
)

// ---------- Extraction Tests ----------

func TestExtractQuoteCommentAnnotation(t *testing.T) {
	got := units.Extract(`T := 20 "[C]"`)
	assert.Equal(t, map[string]string{"T": "C"}, got)
}

func TestExtractBareBracket(t *testing.T) {
	got := units.Extract(`P := 101.325 [kPa]`)
	assert.Equal(t, map[string]string{"P": "kPa"}, got)
}

func TestExtractBarePreferredOverComment(t *testing.T) {
	got := units.Extract(`x := 2 [m] "[ft]"`)
	assert.Equal(t, map[string]string{"x": "m"}, got)
}

func TestExtractCommentForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "brace comment",
			input: `rho := 1000 { [kg/m^3] }`,
			want:  map[string]string{"rho": "kg/m^3"},
		},
		{
			name:  "line comment",
			input: `v := 3 // speed [m/s]`,
			want:  map[string]string{"v": "m/s"},
		},
		{
			name:  "annotation on following comment line",
			input: "T := 20\n{ [K] }",
			want:  map[string]string{"T": "K"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, units.Extract(tt.input))
		})
	}
}

func TestExtractPendingClearedByUnrelatedLine(t *testing.T) {
	// The equation line is neither an assignment start nor a comment,
	// so it breaks the association before the annotation line arrives.
	input := "T := 20\nx + y = 10\n{ [K] }"
	assert.Empty(t, units.Extract(input))
}

func TestExtractBlankLineKeepsPending(t *testing.T) {
	input := "T := 20\n\n\"[K]\""
	assert.Equal(t, map[string]string{"T": "K"}, units.Extract(input))
}

func TestExtractLaterAssignmentOverwrites(t *testing.T) {
	input := "T := 20 [C]\nT := 300 [K]"
	assert.Equal(t, map[string]string{"T": "K"}, units.Extract(input))
}

func TestExtractNewAssignmentReplacesPending(t *testing.T) {
	// U's assignment takes over the pending slot, so [m] binds to U
	// and T stays unannotated.
	input := "T := 20\nU := 1 [m]"
	assert.Equal(t, map[string]string{"U": "m"}, units.Extract(input))
}

func TestExtractStringLiteralBracketsIgnored(t *testing.T) {
	got := units.Extract(`name$ := 'label [x]'`)
	assert.Empty(t, got)
}

func TestExtractWholeFile(t *testing.T) {
	input := `{ heat exchanger sizing }
T_in := 300 "[K]"
T_out := 350 { outlet [K] }
m_dot := 0.5 [kg/s]
Q = m_dot * cp * (T_out - T_in)
cp := 4.18 // water [kJ/kg-K]
`
	want := map[string]string{
		"T_in":  "K",
		"T_out": "K",
		"m_dot": "kg/s",
		"cp":    "kJ/kg-K",
	}
	assert.Equal(t, want, units.Extract(input))
}
