// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package cfg

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rtforge/appconfc/internal/optional"
)

func leaf(kind TokenType, value string) Tree {
	return Leaf{Token: Token{Type: kind, Value: value}}
}

func TestFragmentText(t *testing.T) {
	t.Parallel()

	fragment := Fragment{
		leaf(TokenTypeIdentifier, "Foo"),
		Group{
			Delim: DelimiterParen,
			Trees: []Tree{
				leaf(TokenTypeIntegerDecimal, "0"),
				leaf(TokenTypeComma, ","),
				leaf(TokenTypeText, "on"),
			},
		},
	}
	require.Equal(t, `Foo (0 , "on")`, fragment.Text())
}

func TestFragmentTextNested(t *testing.T) {
	t.Parallel()

	fragment := Fragment{
		leaf(TokenTypeIdentifier, "Vec"),
		Group{
			Delim: DelimiterBracket,
			Trees: []Tree{
				Group{
					Delim: DelimiterBrace,
					Trees: []Tree{leaf(TokenTypeIdentifier, "x")},
				},
			},
		},
	}
	require.Equal(t, "Vec [{x}]", fragment.Text())
}

func TestIdentsSorted(t *testing.T) {
	t.Parallel()

	ids := NewIdents()
	ids.Add("zeta")
	ids.Add("alpha")
	ids.Add("mid")
	require.Equal(t, []string{"alpha", "mid", "zeta"}, ids.Sorted())
	require.True(t, ids.Contains("mid"))
	require.False(t, ids.Contains("other"))
}

func TestIdentsMarshalYAML(t *testing.T) {
	t.Parallel()

	ids := NewIdents()
	ids.Add("b")
	ids.Add("a")
	out, err := yaml.Marshal(ids)
	require.NoError(t, err)
	require.Equal(t, "- a\n- b\n", string(out))
}

func TestTaskMarshalYAMLOmitsAbsentFields(t *testing.T) {
	t.Parallel()

	task := Task{
		Enabled:   optional.None[bool](),
		Priority:  optional.Some(uint8(2)),
		Resources: NewIdents(),
	}
	out, err := yaml.Marshal(task)
	require.NoError(t, err)
	require.Equal(t, "priority: 2\n", string(out))
}
