package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/costline/internal/matching"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  24-5-072  ":        "24-5-072",
		"SDC   Ashburn\tDC1":  "sdc ashburn dc1",
		"ＡＢＣ-１２":             "abc-12",
		"":                    "",
		"Project #7 / Phase B": "project #7 / phase b",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got := matching.Normalize(in)
			assert.Equal(t, want, got)
			assert.Equal(t, got, matching.Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestVariants(t *testing.T) {
	type args struct {
		identifier string
	}

	type testCase struct {
		name string
		args args
		want []string
	}

	tests := []testCase{
		{
			name: "LetterSuffixStripped",
			args: args{identifier: "24-5-072-QUIE1"},
			want: []string{"24-5-072-quie1", "24-5-072"},
		},
		{
			name: "NumericSuffixKept",
			args: args{identifier: "24-5-072"},
			want: []string{"24-5-072"},
		},
		{
			name: "RepeatedStripping",
			args: args{identifier: "24-5-072_ph2-a"},
			want: []string{"24-5-072_ph2-a", "24-5-072_ph2", "24-5-072"},
		},
		{
			name: "MultiIdentifierCell",
			args: args{identifier: "24-5-072, 24-5-073"},
			want: []string{"24-5-072, 24-5-073", "24-5-072", "24-5-073"},
		},
		{
			name: "SlashSeparated",
			args: args{identifier: "24-5-072/24-5-073"},
			want: []string{"24-5-072/24-5-073", "24-5-072", "24-5-073"},
		},
		{
			name: "WhitespaceWordsNeedADigit",
			args: args{identifier: "Reno Campus Phase 1"},
			want: []string{"reno campus phase 1"},
		},
		{
			name: "WhitespaceIdentifierTokenKept",
			args: args{identifier: "Ashburn 24-5-072"},
			want: []string{"ashburn 24-5-072", "24-5-072"},
		},
		{
			name: "SuffixAloneIsNotStripped",
			args: args{identifier: "-abc"},
			want: []string{"-abc"},
		},
		{
			name: "Blank",
			args: args{identifier: "   "},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matching.Variants(tt.args.identifier)
			assert.ElementsMatch(t, tt.want, got)

			if len(got) > 0 {
				assert.Equal(t, matching.Normalize(tt.args.identifier), got[0], "canonical form comes first")
			}
		})
	}
}

func TestVariants_ClosedUnderReapplication(t *testing.T) {
	inputs := []string{
		"24-5-072-quie1",
		"24-5-072, 24-5-073-b",
		"ABC def-x1 / 99_zz",
		"a -x1",
		"Reno Campus Phase-2b",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			set := matching.Variants(in)

			for _, v := range set {
				assert.Subset(t, set, matching.Variants(v), "variants of %q escaped the original set", v)
			}
		})
	}
}

func TestLadders(t *testing.T) {
	type args struct {
		identifier string
	}

	type testCase struct {
		name string
		args args
		want [][]string
	}

	tests := []testCase{
		{
			name: "SingleIdentifier",
			args: args{identifier: "24-5-072_PH2-A"},
			want: [][]string{{"24-5-072_ph2-a", "24-5-072_ph2", "24-5-072"}},
		},
		{
			name: "MultiIdentifierCell",
			args: args{identifier: "24-5-072-quie1, 23-1-118"},
			want: [][]string{
				{"24-5-072-quie1, 23-1-118"},
				{"24-5-072-quie1", "24-5-072"},
				{"23-1-118"},
			},
		},
		{
			name: "PlainWordsDropped",
			args: args{identifier: "Phase 2 Hall"},
			want: [][]string{{"phase 2 hall"}},
		},
		{
			name: "Blank",
			args: args{identifier: " "},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matching.Ladders(tt.args.identifier))
		})
	}
}
