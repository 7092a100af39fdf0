// Package ciutil detects CI environments and names the environment variables
// that test helpers read, so that tests behave the same on every provider.
package ciutil
