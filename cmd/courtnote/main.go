// Command courtnote is the training notebook CLI.
package main

import "github.com/mesh-intelligence/courtnote/internal/cli"

func main() {
	cli.Execute()
}
