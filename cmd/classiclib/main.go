package main

// Build-time variables 'version', 'commit', and 'date' are declared in
// root.go and populated via -ldflags.

// main is the entry point for the classiclib application. Error
// handling (printing errors and setting the exit code) is managed by
// Cobra based on the error returned by RunE.
func main() {
	Execute()
}
