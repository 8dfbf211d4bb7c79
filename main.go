// Command devsim runs discrete-event simulations of coupled atomic models.
package main

import (
	"github.com/sarchlab/devsim/cmd"
)

func main() {
	cmd.Execute()
}
