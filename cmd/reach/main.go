package main

import "github.com/jt05610/reach/cmd/reach/cmd"

func main() {
	cmd.Execute()
}
