// Package main provides the iconctl operator CLI.
//
// iconctl runs the icon discovery engine once from the command line and
// checks URLs against the outbound request guard.
//
// Usage:
//
//	iconctl fetch example.com --out example.ico
//	iconctl check https://10.0.0.1/favicon.ico
//
// See --help for all available options.
package main

func main() {
	Execute()
}
