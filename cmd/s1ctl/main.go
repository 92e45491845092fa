// Command s1ctl calls the platform API from the shell.
package main

import "github.com/jonwraymond/s1sdk/cmd/s1ctl/cmd"

func main() {
	cmd.Execute()
}
