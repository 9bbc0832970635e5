// Command dvote-voter encrypts and submits a single vote.
package main

import (
	"github.com/dvote/voting/app/voter/internal/cmd"
)

func main() {
	cmd.Execute()
}
