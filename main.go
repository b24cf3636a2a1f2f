package main

import "github.com/notargets/ebhydro/cmd"

func main() {
	cmd.Execute()
}
