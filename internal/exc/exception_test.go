// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rtforge/appconfc/internal/cfg"
)

func TestNew(t *testing.T) {
	t.Parallel()

	e := New(Location{URI: "app.rtapp", Location: cfg.Location{Line: 2, Column: 5}}, CodeUnexpectedToken, "expected `:`")
	require.Equal(t, CodeUnexpectedToken, e.Code())
	require.Equal(t, "expected `:`", e.Message())
	require.Equal(t, "app.rtapp:2:5 -- A0010: expected `:`", e.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk gone")
	e := Wrap(Location{URI: "app.rtapp"}, CodeFileNotFound, cause)
	require.Equal(t, CodeFileNotFound, e.Code())
	require.True(t, errors.Is(e, cause))
}

func TestWrapNil(t *testing.T) {
	t.Parallel()

	require.Nil(t, Wrap(Location{}, CodeFileNotFound, nil))
	require.Nil(t, Note("parsing `idle`", nil))
}

func TestNoteChain(t *testing.T) {
	t.Parallel()

	inner := New(Location{URI: "app.rtapp", Location: cfg.Location{Line: 4, Column: 12}}, CodeExpectedBool, "expected boolean, found `1`")
	mid := Note("parsing task `t1`", inner)
	outer := Note("parsing `tasks`", mid)

	require.Equal(t, "parsing `tasks`: parsing task `t1`: expected boolean, found `1`", outer.Message())
	require.Equal(t, CodeExpectedBool, outer.Code())
	require.Equal(t, int32(4), outer.Location().Line)
	require.Equal(t, int32(12), outer.Location().Column)
	require.True(t, errors.Is(outer, inner))
}

func TestNoteUnknownError(t *testing.T) {
	t.Parallel()

	cause := errors.New("broken")
	e := Note("parsing `init`", cause)
	require.Equal(t, CodeUnknownFatal, e.Code())
	require.Equal(t, "parsing `init`: broken", e.Message())
	require.True(t, errors.Is(e, cause))
}

func TestReporter(t *testing.T) {
	t.Parallel()

	r := NewReporter(nil)
	e1 := New(Location{URI: "a.rtapp"}, CodeUnknownField, "unknown field `timers`")
	e2 := New(Location{URI: "b.rtapp"}, CodeDuplicateField, "duplicated `device` field")
	require.Equal(t, e1, r.Report(e1))
	require.Equal(t, e2, r.Report(e2))
	require.Equal(t, []Exception{e1, e2}, r.Reported())
}
