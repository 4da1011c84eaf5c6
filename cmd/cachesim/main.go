// Command cachesim runs a trace through a simulated multi-level cache
// hierarchy with an adaptive stride prefetcher and prints per-level
// statistics at termination.
//
// Usage:
//
//	cachesim [-config <path>] <trace-file>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/cachesim/membacking"
	"github.com/sarchlab/cachesim/timing/cache"
	"github.com/sarchlab/cachesim/timing/prefetch"
	"github.com/sarchlab/cachesim/trace"
)

var configPath = flag.String("config", "", "Path to a hierarchy configuration JSON file")

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: cachesim [options] <trace-file>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	os.Exit(run(flag.Arg(0), *configPath, os.Stdout, os.Stderr))
}

func run(tracePath, configPath string, stdout, stderr *os.File) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "cachesim: fatal: %v\n", r)
			code = 1
		}
	}()

	f, err := os.Open(tracePath)
	if err != nil {
		fmt.Fprintf(stderr, "cachesim: cannot open trace file: %v\n", err)
		return 1
	}
	defer f.Close()

	hierarchyConfig := cache.DefaultHierarchyConfig()
	if configPath != "" {
		hierarchyConfig, err = cache.LoadHierarchyConfig(configPath)
		if err != nil {
			fmt.Fprintf(stderr, "cachesim: %v\n", err)
			return 1
		}
	}

	memory := membacking.NewMemory()

	top, err := hierarchyConfig.Build(memory)
	if err != nil {
		fmt.Fprintf(stderr, "cachesim: %v\n", err)
		return 1
	}

	pf := prefetch.NewController()
	reader := trace.NewReader(f)

	for {
		op, addr, ok, err := reader.Next()
		if err != nil {
			fmt.Fprintf(stderr, "cachesim: %v\n", err)
			return 1
		}
		if !ok {
			break
		}

		pf.OnAccess(addr, top, memory)

		switch op {
		case 'r':
			top.GetByte(addr, nil, false)
		case 'w':
			top.SetByte(addr, byte(addr), nil)
		}
	}

	top.WriteReport(stdout)
	return 0
}
