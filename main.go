package main

import "github.com/DullnessOutfield/ayars/cmd"

func main() {
	cmd.Execute()
}
