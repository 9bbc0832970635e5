// Command e2e drives the built dvote-admin binary through goexpect the way
// an operator would at a terminal: generate a key pair and shares, then
// print a genesis fragment. It expects DVOTE_ADMIN_BIN to point at a built
// binary and DVOTE_CONFIG_DIR to point at a scratch config directory.
//
// Tallying and vote submission need a live consensus engine's RPC
// endpoint, which is out of scope here; this script only smoke-tests the
// locally-runnable subcommands.
package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/google/goexpect"
)

func main() {
	bin := os.Getenv("DVOTE_ADMIN_BIN")
	if bin == "" {
		log.Fatal("DVOTE_ADMIN_BIN must point at a built dvote-admin binary")
	}
	configDir := os.Getenv("DVOTE_CONFIG_DIR")
	if configDir == "" {
		log.Fatal("DVOTE_CONFIG_DIR must point at a scratch config directory")
	}
	timeout := 30 * time.Second

	cmd := fmt.Sprintf("%s generate-keys --config %s/node.yaml --nodes 5 --threshold 3 --key-length 512",
		bin, configDir)
	child, _, err := expect.Spawn(cmd, -1)
	if err != nil {
		log.Fatal(err)
	}
	if _, _, err := child.Expect(regexp.MustCompile("public key written to"), timeout); err != nil {
		log.Fatal(err)
	}
	if _, _, err := child.Expect(regexp.MustCompile(`5 shares \(threshold 3\) written to`), timeout); err != nil {
		log.Fatal(err)
	}
	if err := child.Close(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("generate-keys: ok")

	cmd = fmt.Sprintf("%s setup-genesis --config %s/node.yaml --end-height 1000", bin, configDir)
	child, _, err = expect.Spawn(cmd, -1)
	if err != nil {
		log.Fatal(err)
	}
	if _, _, err := child.Expect(regexp.MustCompile(`"voting_end_height":1000`), timeout); err != nil {
		log.Fatal(err)
	}
	if err := child.Close(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("setup-genesis: ok")
}
