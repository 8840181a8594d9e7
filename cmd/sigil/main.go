// Sigil evaluates conditional text facts written by untrusted authors.
//
// Facts are plain strings; prefixing one with "$if <expression>: " makes
// it conditional. Expressions run in a restricted sandbox with a fixed
// set of builtins and no access to anything outside the evaluation
// context. Regex patterns used inside expressions are structurally
// validated before they ever reach the regexp engine.
//
// Usage:
//
//	# Start the daemon with default configuration
//	sigil run
//
//	# Lint fact packs
//	sigil lint --dir packs/
//
//	# Evaluate a pack from the command line
//	sigil eval --file packs/forest.yaml --set mood=calm
//
//	# Show version information
//	sigil version
package main

func main() {
	Execute()
}
