// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"fmt"
	"sort"

	"github.com/rtforge/appconfc/internal/cfg"
	"github.com/rtforge/appconfc/internal/exc"
)

// check verifies that every resource referenced by the idle context or by a
// task is declared in the top-level `resources` map. All unresolved
// references are reported before returning so a single run surfaces every
// problem at once.
func check(uri string, app *cfg.App, reporter exc.Reporter) error {
	var failed bool
	report := func(owner string, name string) {
		failed = true
		_ = reporter.Report(exc.New(
			exc.Location{URI: uri},
			exc.CodeUnresolvedResource,
			fmt.Sprintf("%s references undeclared resource `%s`", owner, name),
		))
	}

	for _, name := range app.Idle.Resources.Sorted() {
		if _, ok := app.Resources[name]; !ok {
			report("`idle`", name)
		}
	}
	for _, taskName := range sortedTaskNames(app.Tasks) {
		task := app.Tasks[taskName]
		for _, name := range task.Resources.Sorted() {
			if _, ok := app.Resources[name]; !ok {
				report(fmt.Sprintf("task `%s`", taskName), name)
			}
		}
	}
	if failed {
		return exc.New(exc.Location{URI: uri}, exc.CodeUnresolvedResource, "one or more resource references are unresolved")
	}
	return nil
}

func sortedTaskNames(tasks cfg.Tasks) []string {
	names := make([]string, 0, len(tasks))
	for name := range tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
