/*
Copyright 2025 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"goarrg.com/debug"

	"github.com/nicegraf/ngfxc"
)

var flags flag.FlagSet

type targetList []string

func (t *targetList) UnmarshalText(data []byte) error {
	*t = append(*t, string(data))
	return nil
}

func (t targetList) MarshalText() ([]byte, error) {
	return []byte(strings.Join(t, ",")), nil
}

type macroList []ngfxc.CompileMacro

func (m *macroList) UnmarshalText(data []byte) error {
	str := string(data)
	name, value, hasValue := strings.Cut(str, "=")
	if name == "" {
		return debug.Errorf("macro not in the format \"macro[=value]\"")
	}
	if !hasValue {
		value = ""
	}
	*m = append(*m, ngfxc.CompileMacro{Name: name, Value: value})
	return nil
}

func (m macroList) MarshalText() ([]byte, error) {
	var b strings.Builder
	for _, d := range m {
		fmt.Fprintf(&b, "%s=%s\n", d.Name, d.Value)
	}
	return []byte(strings.TrimSuffix(b.String(), "\n")), nil
}

func main() {
	debug.SetLevel(debug.LogLevelWarn)

	flags.Usage = help
	flags.Init("", flag.ContinueOnError)

	v := flags.Bool("v", false, "Verbose - Print high level tasks")
	vv := flags.Bool("vv", false, "Very Verbose - Print everything")

	outDir := flags.String("O", ".", "Sets the output directory.")
	header := flags.String("h", "", "Relative path of an optional generated header. No header is written when omitted.")
	namespace := flags.String("n", "", "Namespace prefix used by identifiers in the generated header.")

	targets := targetList{}
	flags.TextVar(&targets, "t", targetList{}, "Adds a target to compile for, by catalog name (e.g. \"gl430\", \"spv\"). Repeatable; at least one required.")

	defines := macroList{}
	flags.TextVar(&defines, "D", macroList{}, "Defines a macro in the format \"macro[=value]\", applied before technique-level define: directives.")

	includes := targetList{}
	flags.TextVar(&includes, "I", targetList{}, "Adds a directory to the #include search path. Repeatable.")

	strip := flags.Bool("strip", false, "Strips debug and non-semantic information from the front-end output.")
	optPerf := flags.Bool("Oconfig-perf", false, "Optimize for performance.")
	optSize := flags.Bool("Os", false, "Optimize for size.")

	// flag.ContinueOnError already prints the parse error and calls
	// flags.Usage (help) via its internal failf; just set the exit status
	// spec.md §6.1/§7 mandate for a malformed invocation.
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if *vv {
		debug.SetLevel(debug.LogLevelVerbose)
	} else if *v {
		debug.SetLevel(debug.LogLevelInfo)
	}

	args := flags.Args()
	if len(args) != 1 {
		debug.EPrintf("ngfxc takes exactly one input file.")
		help()
		os.Exit(1)
	}
	if len(targets) == 0 {
		debug.EPrintf("At least one -t <target> is required.")
		help()
		os.Exit(1)
	}

	resolved := make([]ngfxc.Target, 0, len(targets))
	for _, name := range targets {
		tg, ok := ngfxc.LookupTarget(name)
		if !ok {
			debug.EPrintf("%s", (&ngfxc.UnknownTargetError{Name: name}).Error())
			os.Exit(1)
		}
		resolved = append(resolved, tg)
	}

	inputPath, err := filepath.Abs(args[0])
	if err != nil {
		debug.EPrintf("%s", err)
		os.Exit(1)
	}

	frontend := ngfxc.NewFrontEndCompiler(ngfxc.FrontEndOptions{
		Strip:               *strip,
		OptimizePerformance: *optPerf,
		OptimizeSize:        *optSize,
		ExtraMacros:         defines,
	})
	defer frontend.Close()

	err = ngfxc.Run(ngfxc.Options{
		InputPath:     inputPath,
		OutDir:        *outDir,
		Targets:       resolved,
		HeaderRelPath: *header,
		Namespace:     *namespace,
		FrontEnd:      frontend,
		NewBackend:    ngfxc.NewBackendCompiler,
		IncludeSearch: includes,
	})
	if err != nil {
		debug.EPrintf("%s", err)
		os.Exit(1)
	}
}

func help() {
	fmt.Fprintf(os.Stderr, "ngfxc compiles annotated HLSL techniques to SPIR-V and a configured set of\n"+
		"target shading languages, emitting translated shaders plus a binary pipeline\n"+
		"metadata file per technique.\n\n")
	args := ""
	flags.VisitAll(func(f *flag.Flag) {
		n, u := flag.UnquoteUsage(f)
		if f.DefValue != "" {
			u += "\n\nDefaults to \"" + f.DefValue + "\"."
		}
		args += "\t-" + f.Name + " " + n + "\n\t\t" + strings.ReplaceAll(strings.TrimSpace(u), "\n", "\n\t\t") + "\n"
	})
	fmt.Fprintf(os.Stderr, "Usage:\n\t%s [arguments] <input.hlsl>\n\nArguments:\n%s", filepath.Base(os.Args[0]), args)
}
