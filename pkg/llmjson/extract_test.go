package llmjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here you go: {\"a\":{\"b\":2}} hope it helps", `{"a":{"b":2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestExtract_NoObject(t *testing.T) {
	_, err := Extract("sorry, I cannot help")
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = Extract("} {")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestDecode(t *testing.T) {
	var out struct {
		Advice []string `json:"temporary_advice"`
	}
	require.NoError(t, Decode("```json {\"temporary_advice\": [\"x\", \"y\"]} ```", &out))
	assert.Equal(t, []string{"x", "y"}, out.Advice)

	assert.Error(t, Decode("{not json}", &out))
}
