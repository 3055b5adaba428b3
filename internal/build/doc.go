// Package build runs the asset build tasks of a resolved configuration.
//
// A run is a sequence of task references (index, index:<target>,
// sass:<profile>, release-check) executed in order. The first failing task
// stops the run. After a successful run the ordered file manifest is written
// into the temp directory. All execution paths (CLI, tests) route through
// BuildService.
package build
