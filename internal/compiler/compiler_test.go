// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rtforge/appconfc/internal/cfg"
	"github.com/rtforge/appconfc/internal/fs"
)

const validApp = `{
	device: stm32f103xx,
	init: {path: init},
	idle: {path: idle},
	resources: {SHARED: u8 = 0;},
	tasks: {t1: {priority: 1, resources: [SHARED]}},
}`

func newTestCompiler(t *testing.T, root string) cfg.Compiler {
	t.Helper()

	local, err := fs.NewFileSystemLocal(root)
	require.Nil(t, err)
	c, err := New(
		OptionWithLookupEnv(os.LookupEnv),
		OptionWithFS(fs.FileSystemMulti{local}),
	)
	require.Nil(t, err)
	return c
}

func TestCompileDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(root, "a.rtapp"), []byte(validApp), 0o644))
	require.Nil(t, os.WriteFile(filepath.Join(root, "b.rtapp"), []byte(validApp), 0o644))
	require.Nil(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644))

	c := newTestCompiler(t, root)
	out, err := c.Compile(context.Background(), &cfg.CompileRequest{Files: []string{"/"}})
	require.Nil(t, err)
	require.Len(t, out.Apps, 2)

	uris := []string{out.Apps[0].URI, out.Apps[1].URI}
	sort.Strings(uris)
	require.Equal(t, []string{"a.rtapp", "b.rtapp"}, uris)
	for _, unit := range out.Apps {
		require.Equal(t, "stm32f103xx", unit.App.Device.Text())
	}
}

func TestCompileDeduplicatesTargets(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(root, "a.rtapp"), []byte(validApp), 0o644))

	c := newTestCompiler(t, root)
	out, err := c.Compile(context.Background(), &cfg.CompileRequest{
		Files: []string{"/a.rtapp", "/a.rtapp"},
	})
	require.Nil(t, err)
	require.Len(t, out.Apps, 1)
}

func TestCompileCollectsAllErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(root, "bad1.rtapp"), []byte("{device: a}"), 0o644))
	require.Nil(t, os.WriteFile(filepath.Join(root, "bad2.rtapp"), []byte("{device: b}"), 0o644))

	c := newTestCompiler(t, root)
	_, err := c.Compile(context.Background(), &cfg.CompileRequest{Files: []string{"/"}})
	require.Error(t, err)

	var me MultiException
	require.True(t, errors.As(err, &me))
	require.Len(t, me, 2)
}

func TestCompileSkipCheck(t *testing.T) {
	t.Parallel()

	unresolved := `{
		device: d,
		init: {path: i},
		idle: {path: j},
		tasks: {t1: {resources: [MISSING]}},
	}`
	root := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(root, "a.rtapp"), []byte(unresolved), 0o644))

	c := newTestCompiler(t, root)
	_, err := c.Compile(context.Background(), &cfg.CompileRequest{Files: []string{"/a.rtapp"}})
	require.Error(t, err)

	c = newTestCompiler(t, root)
	out, err := c.Compile(context.Background(), &cfg.CompileRequest{
		Files:     []string{"/a.rtapp"},
		SkipCheck: true,
	})
	require.Nil(t, err)
	require.Len(t, out.Apps, 1)
}

func TestCompileMissingTarget(t *testing.T) {
	t.Parallel()

	c := newTestCompiler(t, t.TempDir())
	_, err := c.Compile(context.Background(), &cfg.CompileRequest{Files: []string{"/nope.rtapp"}})
	require.Error(t, err)
}
