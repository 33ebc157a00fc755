// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package optional

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSome(t *testing.T) {
	t.Parallel()

	v := Some(uint8(3))
	require.True(t, v.IsPresent())
	require.False(t, v.IsZero())
	require.Equal(t, uint8(3), v.Value())
	require.Equal(t, uint8(3), v.OrElse(1))
}

func TestNone(t *testing.T) {
	t.Parallel()

	v := None[uint8]()
	require.False(t, v.IsPresent())
	require.True(t, v.IsZero())
	require.Equal(t, uint8(0), v.Value())
	require.Equal(t, uint8(1), v.OrElse(1))
}

func TestEqual(t *testing.T) {
	t.Parallel()

	require.True(t, Some(true).Equal(Some(true)))
	require.False(t, Some(true).Equal(Some(false)))
	require.False(t, Some(true).Equal(None[bool]()))
	require.True(t, None[bool]().Equal(None[bool]()))
}

func TestMarshalYAML(t *testing.T) {
	t.Parallel()

	v, err := Some(7).MarshalYAML()
	require.NoError(t, err)
	require.Equal(t, 7, v)

	v, err = None[int]().MarshalYAML()
	require.NoError(t, err)
	require.Nil(t, v)
}
