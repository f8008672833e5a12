package main

import "github.com/om-ka/crossfit-registration/cmd"

func main() {
	cmd.Execute()
}
