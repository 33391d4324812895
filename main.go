package main

import "github.com/smallshell/smsh/cmd"

func main() {
	cmd.Execute()
}
