package main

import "github.com/iksnae/resume-session/cmd"

func main() {
	cmd.Execute()
}
