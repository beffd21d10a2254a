package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var c Curso
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","nombre":"Desarrollo Web","fechaCreacion":"2024-01-15"}`), &c))
	assert.Equal(t, NewDate(2024, time.January, 15), c.FechaCreacion)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c1","nombre":"Desarrollo Web","fechaCreacion":"2024-01-15"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"fechaCreacion":"2024-03-05T10:00:00Z"}`), &c))
	assert.Equal(t, "2024-03-05", c.FechaCreacion.String())

	assert.Error(t, json.Unmarshal([]byte(`{"fechaCreacion":"ayer"}`), &c))

	var empty Curso
	out, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"fechaCreacion":null`)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-02-01 00:00:00+00:00"))
	assert.Equal(t, "2024-02-01", d.String())

	require.NoError(t, d.Scan([]byte("2024-02-02")))
	assert.Equal(t, "2024-02-02", d.String())

	require.NoError(t, d.Scan(time.Date(2024, 2, 3, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-02-03", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2024, time.May, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", v)
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{
		"2024-01-15",
		"2024-01-15T10:00:00Z",
		"2024-01-15T10:00:00.123-03:00",
		"2024-01-15 00:00:00",
		"2024-01-15 00:00:00+00:00",
		"2024-01-15 08:30:00.5Z",
	} {
		d, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, "2024-01-15", d.String(), s)
	}

	for _, s := range []string{"2024-01-15garbage", "2024-01-15T", "2024-01-15 10", "2024-13-01", "15/01/2024", ""} {
		_, err := ParseDate(s)
		assert.Error(t, err, s)
	}
}
