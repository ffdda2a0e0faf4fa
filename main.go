package main

import "github.com/notargets/polyfem/cmd"

func main() {
	cmd.Execute()
}
