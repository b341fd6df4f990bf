package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestBytes2Struct(t *testing.T) {
	got, err := Bytes2Struct[sample]([]byte(`{"name":"a","count":2}`))
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "a", Count: 2}, got)

	_, err = Bytes2Struct[sample]([]byte(`{"count":"two"}`))
	assert.Error(t, err)
}

func TestStruct2Bytes(t *testing.T) {
	got, err := Struct2Bytes(sample{Name: "a", Count: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a","count":2}`, got)
}
