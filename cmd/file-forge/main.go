package main

// Note: Build-time variables 'version', 'commit', and 'date' are declared in
// 'root.go' within this package. They are populated at build time via
// -ldflags.

// main is the entry point for the file-forge application. It invokes the
// Execute function (defined in root.go) which sets up and executes the root
// Cobra command.
func main() {
	Execute()
}
