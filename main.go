package main

import "github.com/mzdehbashi-github/ableton-challenge/cmd"

func main() {
	cmd.Execute()
}
