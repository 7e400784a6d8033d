// Package magetasks holds the build, lint and test tasks behind the Magefile.
// Test tasks run go test through quiet itself.
package magetasks
