// Command dvote-admin is the election administrator CLI: key generation,
// genesis fragment setup, and tallying.
package main

import (
	"github.com/dvote/voting/app/admin/internal/cmd"
)

func main() {
	cmd.Initialize()
	cmd.Execute()
}
