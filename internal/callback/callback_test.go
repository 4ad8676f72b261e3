package callback

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sovbot/internal/session"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   Answer
		want string
	}{
		{"first stage", Answer{Stage: session.StageFirst, Weight: 3, Index: 0}, "v1:s1_3_0"},
		{"second stage", Answer{Stage: session.StageSecond, Weight: 4, Index: 7}, "v1:s2_4_7"},
		{"negative weight", Answer{Stage: session.StageFirst, Weight: -2, Index: 17}, "v1:s1_-2_17"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	_, err := Encode(Answer{Stage: session.StageDone})
	assert.Error(t, err)

	_, err = Encode(Answer{Stage: session.StageFirst, Index: -1})
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	for _, st := range []session.Stage{session.StageFirst, session.StageSecond} {
		for _, w := range []int{-5, 0, 1, 4, 1000} {
			for _, idx := range []int{0, 1, 17, 12345} {
				in := Answer{Stage: st, Weight: w, Index: idx}
				s, err := Encode(in)
				require.NoError(t, err)
				assert.LessOrEqual(t, len(s), MaxLen)

				out, err := Decode(s)
				require.NoError(t, err, s)
				assert.Equal(t, in, out, s)
			}
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []string{
		"",
		"s1_3_0",
		"v2:s1_3_0",
		"v1:",
		"v1:s1_3",
		"v1:s1_3_0_1",
		"v1:s3_3_0",
		"v1:S1_3_0",
		"v1:s1_x_0",
		"v1:s1_3_y",
		"v1:s1_3_-1",
		"v1:s1_+3_0",
		"v1:s1_03_0",
		"v1:s1_3_00",
		"v1:s1_ 3_0",
		"v1:s1_3_0 ",
		"v1:s1_3_" + strings.Repeat("9", 70),
		"start_diagnostics",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			_, err := Decode(s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "error %v should wrap ErrMalformed", err)
		})
	}
}

func TestIsAnswer(t *testing.T) {
	assert.True(t, IsAnswer("v1:s1_3_0"))
	assert.True(t, IsAnswer("v9:anything"))
	assert.False(t, IsAnswer("start_diagnostics"))
	assert.False(t, IsAnswer("about_method"))
	assert.False(t, IsAnswer(""))
}
