// Command lexfields reads and writes custom fields of a lexical project.
package main

import "github.com/mesh-intelligence/lexfields/internal/cli"

func main() {
	cli.Execute()
}
