//go:build wasm

package main

// run is unreachable in the browser build; RunWhenOnBrowser blocks
func run(args []string) error {
	return nil
}
