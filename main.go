package main

import "github.com/notargets/quadnurbs/cmd"

func main() {
	cmd.Execute()
}
