// generate writes the reference documentation for the facewatch command
// tree.
//
//	go run ./cmd/cli/docs --target docs/reference
package main

import (
	"os"

	clidocstool "github.com/docker/cli-docs-tool"
	"github.com/facewatch/toolkit/cmd/cli/commands"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

func main() {
	source := flag.String("source", "docs/reference", "Directory with hand-written docs to merge")
	target := flag.String("target", "docs/reference", "Output directory")
	flag.Parse()

	log := logrus.WithField("component", "docs")
	if err := os.MkdirAll(*target, 0o755); err != nil {
		log.Fatalf("Creating %s: %v", *target, err)
	}
	root := commands.NewRootCmd()
	root.DisableAutoGenTag = true

	c, err := clidocstool.New(clidocstool.Options{
		Root:      root,
		SourceDir: *source,
		TargetDir: *target,
	})
	if err != nil {
		log.Fatalf("Initializing docs tool: %v", err)
	}
	if err := c.GenAllTree(); err != nil {
		log.Fatalf("Generating docs: %v", err)
	}
	log.Infof("Wrote reference docs to %s", *target)
}
