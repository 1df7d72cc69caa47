package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/blockfs/newfs"
)

const usage = `newfsctl - newfs filesystem CLI tool

Usage:
  newfsctl mount --device=PATH <mountpoint>        Mount and serve a newfs image (requires fuse build tag)
  newfsctl export --device=PATH --out=FILE [--format=gzip|xz]   Export a device image
  newfsctl import --device=PATH --in=FILE [--format=gzip|xz]    Import a device image
  newfsctl help                                    Show this help message
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	flags, args := parseArgs(os.Args[2:])

	var err error
	switch cmd {
	case "mount":
		err = doMount(flags, args)
	case "export":
		err = doExport(flags)
	case "import":
		err = doImport(flags)
	case "help":
		fmt.Println(usage)
		return
	default:
		fmt.Printf("Error: Unknown command '%s'\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// parseArgs splits "--key=value" style arguments from positional arguments,
// in the manual os.Args-switch style this CLI favors over a flag library.
func parseArgs(raw []string) (map[string]string, []string) {
	flags := make(map[string]string)
	var positional []string

	for _, a := range raw {
		if strings.HasPrefix(a, "--") {
			kv := strings.SplitN(a[2:], "=", 2)
			if len(kv) == 2 {
				flags[kv[0]] = kv[1]
			} else {
				flags[kv[0]] = ""
			}
			continue
		}
		positional = append(positional, a)
	}

	return flags, positional
}

func doMount(flags map[string]string, args []string) error {
	device := flags["device"]
	if device == "" {
		return fmt.Errorf("missing --device=PATH")
	}
	if len(args) < 1 {
		return fmt.Errorf("missing mountpoint")
	}

	dev, err := newfs.OpenDevice(device)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}

	fsys, err := newfs.Mount(dev)
	if err != nil {
		return fmt.Errorf("failed to mount: %w", err)
	}
	defer fsys.Unmount()

	return serve(fsys, args[0])
}

func doExport(flags map[string]string) error {
	device := flags["device"]
	out := flags["out"]
	format := flags["format"]
	if format == "" {
		format = "gzip"
	}
	if device == "" || out == "" {
		return fmt.Errorf("missing --device=PATH or --out=FILE")
	}

	dev, err := newfs.OpenDevice(device)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	fsys, err := newfs.Mount(dev)
	if err != nil {
		return fmt.Errorf("failed to mount: %w", err)
	}
	if err := fsys.Unmount(); err != nil {
		return fmt.Errorf("failed to unmount before export: %w", err)
	}

	dev, err = newfs.OpenDevice(device)
	if err != nil {
		return fmt.Errorf("failed to reopen device: %w", err)
	}
	defer dev.Close()

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return newfs.ExportDevice(dev, f, format)
}

func doImport(flags map[string]string) error {
	device := flags["device"]
	in := flags["in"]
	format := flags["format"]
	if format == "" {
		format = "gzip"
	}
	if device == "" || in == "" {
		return fmt.Errorf("missing --device=PATH or --in=FILE")
	}

	dev, err := newfs.OpenDevice(device)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	defer dev.Close()

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return newfs.ImportDevice(dev, f, format)
}
