// wiretool computes wireframe texture labels for triangle meshes.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/wireframe-uv/pkg/mesh"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "regions":
		err = cmdRegions(args)
	case "label":
		err = cmdLabel(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`wiretool - wireframe texture label generator

Usage:
  wiretool <command> [options] [file.obj]

Commands:
  info     <file.obj>     Show topology summary
  regions  <file.obj>     List shared-vertex and shared-edge regions with cut statistics
  label    <file.obj>     Label the mesh and write a YAML report
  config   [path]         Write the current configuration

Common options:
  -primitive <name>       Use a built-in mesh instead of a file (%s)
  -config <path>          Config file (default ./wiretool.yaml or the user config dir)
  -cutoff <degrees>       Angle cutoff [0, 90]
  -channel <n>            UV channel [0, 7]
  -timeout <duration>     Label solve timeout per region
  -debug                  Debug logging

Examples:
  wiretool info model.obj
  wiretool regions -cutoff 30 -primitive circle
  wiretool label -o report.yaml -cache model.obj
  wiretool config ./wiretool.yaml
`, strings.Join(mesh.PrimitiveNames(), ", "))
}
