package main

import (
	"fmt"
	"os"

	"github.com/abra-lang/abra/internal/config"
	"github.com/abra-lang/abra/internal/vm"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <execute|disasm> <file%s>\n",
		os.Args[0], config.CompiledExt)
	os.Exit(1)
}

func loadCode(path string) *vm.Code {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer f.Close()

	code, err := vm.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %s\n", path, err)
		os.Exit(1)
	}
	return code
}

func execute(path string, opts config.Options) int {
	code := loadCode(path)

	m := vm.New(code, nil)
	m.SetIO(os.Stdin, os.Stdout)
	m.SetStackSize(opts.StackSize)
	if opts.Debug {
		m.SetObserver(vm.NewDebugCLI(os.Stdin, os.Stdout).Step)
	}
	return m.Run()
}

func main() {
	if len(os.Args) < 3 {
		usage()
	}

	opts, err := config.Load(config.DefaultFileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "execute":
		os.Exit(execute(os.Args[2], opts))
	case "disasm":
		fmt.Print(vm.Disassemble(loadCode(os.Args[2])))
	default:
		usage()
	}
}
