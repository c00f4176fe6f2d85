// pinctl drives the pins of a board running the pin command firmware.
package main

import (
	"os"
)

func main() {
	s := &session{}
	err := newRootCommand(s).Execute()
	s.close()
	if err != nil {
		os.Exit(1)
	}
}
