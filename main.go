// Command pkgtune maintains per-package configuration overrides for a
// Portage-style tree.
package main

import "github.com/papapumpkin/pkgtune/cmd"

func main() {
	cmd.Execute()
}
