// Package classveil renames CSS classes to short random tokens across a
// site's stylesheets, markup and scripts, and restores them later.
//
// # Build
//
// Rewrite a source tree into an output tree and write the class map:
//
//	result, err := classveil.Build(classveil.Config{
//		SourceDir: "src",
//		OutputDir: "dist",
//		Minify:    true,
//	})
//
// Stylesheets and class attributes create map entries. String literals in
// scripts only reuse entries that already exist, so a literal is rewritten
// only when it names a class some stylesheet or markup file defined.
//
// # Restore
//
// Put the original names back using the map written by Build:
//
//	result, err := classveil.Restore(classveil.RestoreConfig{
//		InputDir:  "dist",
//		OutputDir: "restored",
//		Format:    true,
//	})
//
// # CLI Tool
//
// classveil also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/classveil/cmd/classveil@latest
package classveil
