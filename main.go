// Command protpipe exports variant-effect annotations as protein databases.
package main

import "github.com/gaurav-prasanna/protpipe/cmd"

func main() {
	cmd.Execute()
}
