package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadRouteTable compiles a route table from a .cue file, or from the CUE
// package in a directory.
func LoadRouteTable(path string) (*RouteTable, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}

	ctx := cuecontext.New()
	var v cue.Value

	if info.IsDir() {
		instances := load.Instances([]string{"."}, &load.Config{Dir: path})
		if len(instances) == 0 {
			return nil, fmt.Errorf("route table: no CUE instances in %s", path)
		}
		if err := instances[0].Err; err != nil {
			return nil, formatCUEError("cue", err)
		}
		v = ctx.BuildInstance(instances[0])
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("route table: %w", err)
		}
		v = ctx.CompileBytes(data, cue.Filename(path))
	}

	return CompileRouteTable(v)
}
