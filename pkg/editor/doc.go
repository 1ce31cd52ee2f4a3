// Package editor is the view-layer state shared by the CLI, the terminal
// browser and the HTTP server.
//
// An [Editor] holds the one current component graph. Every user action runs
// a pure [component] operation on the current value and stores the result,
// so the graph is never mutated in place and edits from several goroutines
// are applied one after another. After any change the caller can derive a
// fresh layout ([Editor.Layout]) and a fresh share link ([Editor.ShareURL]).
//
// A [Draft] models the add/edit component form: a name, a parent choice and
// a list of prop rows that may be incomplete while the user types. Submitting
// a draft commits only the complete rows.
//
//	ed := editor.Open(ctx, token, editor.WithBaseURL("https://compgraph.dev/"))
//	d := editor.NewDraft()
//	d.Name = "Header"
//	d.SetRow(0, component.Prop{Name: "title", Type: "string"})
//	ed.Submit(ctx, &d)
//	link, _ := ed.ShareURL()
package editor
