// ./main.go
package main

import (
	"github.com/dgrzelak/udscope/cmd"
)

// main is the entry point for the udscope CLI.
func main() {
	cmd.Execute()
}
