package main

import "github.com/gaurav-prasanna/townpipe/cmd"

func main() {
	cmd.Execute()
}
