// Package publisher runs the publish loop: for every configured repository it
// clones once, lists version tags, and drives each (project, tag) work unit
// through its steps.
//
//	check artifact -> checkout -> build artifact -> record artifact
//	check docs -> build docs -> locate docs -> relocate docs -> record docs
//
// A failing step abandons its unit only. A failing clone or tag listing skips
// its repository only. The whole loop runs inside one cache lease, released on
// every exit path, and the release area's Maven metadata is normalized once the
// lease is back.
package publisher
