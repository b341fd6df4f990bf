package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsModelAvailable(t *testing.T) {
	for _, m := range AllModels() {
		t.Run(m.String(), func(t *testing.T) {
			assert.Equal(t, m != GPT4, IsModelAvailable(m))
		})
	}
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		in   string
		want Model
		ok   bool
	}{
		{"gpt3turbo", GPT3Turbo, true},
		{"GPT4", GPT4, true},
		{"gpt-3.5-turbo", GPT3Turbo, true},
		{" text-ada-001 ", Ada, true},
		{"davinci", Davinci, true},
		{"gpt-5", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseModel(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestChatRequestAlwaysCarriesSamplingFields(t *testing.T) {
	body, err := json.Marshal(ChatRequest{
		Model:    GPT3Turbo,
		Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"model": "gpt-3.5-turbo",
		"messages": [{"role": "user", "content": "hi"}],
		"temperature": 0,
		"stream": false,
		"max_tokens": 0
	}`, string(body))
}

func TestChatResponseContent(t *testing.T) {
	var resp ChatResponse
	require.NoError(t, json.Unmarshal([]byte(`{"choices":[{"message":{"role":"assistant","content":"pong"}}]}`), &resp))
	assert.Equal(t, "pong", resp.Content())

	resp = ChatResponse{}
	require.NoError(t, json.Unmarshal([]byte(`{"choices":[{"index":0}]}`), &resp))
	assert.Equal(t, "", resp.Content())

	resp = ChatResponse{}
	require.NoError(t, json.Unmarshal([]byte(`{"error":{"message":"bad key"}}`), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "bad key", resp.Error.Message)
	assert.Equal(t, "", resp.Content())
}
