package main

import (
	"github.com/sectionserver/sectionserver/cmd"
)

func main() {
	cmd.Execute()
}
