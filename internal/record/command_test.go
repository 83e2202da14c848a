package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSetRoundTrip(t *testing.T) {
	cmd := NewSet("k1", "v1")
	require.True(t, cmd.IsSet())
	require.False(t, cmd.IsRemove())

	key, ok := cmd.Key()
	require.True(t, ok)
	require.Equal(t, "k1", key)

	data, err := cmd.Marshal()
	require.NoError(t, err)
	require.JSONEq(t, `{"Set":{"key":"k1","value":"v1"}}`, string(data))

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, cmd, decoded)
}

func TestNewRemoveRoundTrip(t *testing.T) {
	cmd := NewRemove("k1")
	require.True(t, cmd.IsRemove())
	require.False(t, cmd.IsSet())

	data, err := cmd.Marshal()
	require.NoError(t, err)
	require.JSONEq(t, `{"Remove":{"key":"k1"}}`, string(data))

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, cmd, decoded)
}

func TestMarshalEmptyCommand(t *testing.T) {
	var cmd Command
	_, err := cmd.Marshal()
	require.Error(t, err)
}

func TestUnmarshalRejectsBothArms(t *testing.T) {
	_, err := Unmarshal([]byte(`{"Set":{"key":"k","value":"v"},"Remove":{"key":"k"}}`))
	require.Error(t, err)
}

func TestUnmarshalRejectsNeitherArm(t *testing.T) {
	_, err := Unmarshal([]byte(`{}`))
	require.Error(t, err)
}

func TestKeyReportsWellFormedness(t *testing.T) {
	_, ok := Command{}.Key()
	require.False(t, ok)
}
