package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// StepAction tells the run loop what to do after an observed step.
type StepAction uint8

const (
	StepContinue StepAction = iota
	StepQuit
)

// StepObserver is invoked once per instruction before it executes. The
// machine stays deterministic when no observer is installed.
type StepObserver func(m *Machine, ip int) StepAction

// DebugCLI is the interactive step observer: it reads single-letter
// commands from its input and can show the bytecode window, the stack top,
// single-step, free-run with breakpoints, or quit the program.
type DebugCLI struct {
	in  *bufio.Reader
	out io.Writer

	running      bool
	showStack    bool
	showBytecode bool
	breakpoints  map[int]bool
}

// NewDebugCLI builds a debugger over the given console. When the input is
// an interactive terminal a command summary is printed up front.
func NewDebugCLI(in io.Reader, out io.Writer) *DebugCLI {
	d := &DebugCLI{
		in:          bufio.NewReader(in),
		out:         out,
		breakpoints: make(map[int]bool),
	}
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprintln(out, "DEBUG MODE <q - quit> <r - run> <n - next> <b N - set breakpoint> <s - toggle stack view> <c - toggle bytecode view>")
	}
	return d
}

// Step satisfies StepObserver.
func (d *DebugCLI) Step(m *Machine, ip int) StepAction {
	if d.showBytecode {
		d.printBytecodeWindow(m, ip)
	}
	if d.showStack {
		d.printStack(m)
	}
	for {
		if d.running {
			if d.breakpoints[ip] {
				d.running = false
				continue
			}
			return StepContinue
		}
		line, err := d.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil && line == "" {
			// input exhausted, stop intercepting
			d.running = true
			return StepContinue
		}
		if line == "" {
			continue
		}
		cmd, rest := line[:1], strings.TrimSpace(line[1:])
		switch strings.ToLower(cmd) {
		case "c":
			d.showBytecode = !d.showBytecode
		case "s":
			d.showStack = !d.showStack
		case "b":
			if rest == "" {
				rest, _ = d.in.ReadString('\n')
				rest = strings.TrimSpace(rest)
			}
			if n, err := strconv.Atoi(rest); err == nil {
				d.breakpoints[n] = true
			} else {
				fmt.Fprintf(d.out, "bad breakpoint %q\n", rest)
			}
		case "r":
			d.running = true
			return StepContinue
		case "n":
			return StepContinue
		case "q":
			return StepQuit
		}
	}
}

func (d *DebugCLI) printBytecodeWindow(m *Machine, ip int) {
	fmt.Fprintln(d.out, "Bytecode:")
	code := m.Code()
	low := ip - 5
	if low < 0 {
		low = 0
	}
	high := ip + 5
	if high > len(code.Bytecode) {
		high = len(code.Bytecode)
	}
	for i := low; i < high; i++ {
		marker := ""
		if i == ip {
			marker = " << CURRENT"
		}
		fmt.Fprintf(d.out, "%d | %s%s\n", i, FormatInstruction(code.Bytecode[i]), marker)
	}
}

func (d *DebugCLI) printStack(m *Machine) {
	fmt.Fprintln(d.out, "Stack:")
	sp := m.SP()
	for i := sp; i >= 0 && i+10 >= sp; i-- {
		marker := ""
		if i == sp {
			marker = " << HEAD"
		}
		fmt.Fprintf(d.out, "%d | %s%s\n", i, m.StackAt(i), marker)
	}
}
