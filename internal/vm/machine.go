package vm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abra-lang/abra/internal/config"
	"github.com/abra-lang/abra/internal/inbuilt"
	"github.com/abra-lang/abra/internal/object"
)

var (
	errStackOverflow  = errors.New("operand stack overflow")
	errStackUnderflow = errors.New("operand stack underflow")
	errNoFrame        = errors.New("attempted to access stack frames while none are allocated")
	errUndefinedVar   = errors.New("attempted to access an undefined variable")
)

// frame is one call activation: its locals plus the coordinates to restore
// on return.
type frame struct {
	name   string
	locals map[string]object.Value
	retIP  int
	retSP  int
}

// Machine executes resolved Code. It owns the register bank, the operand
// stack, the call frames, the globals and the heap; one Machine is one
// single-threaded run.
type Machine struct {
	code      *Code
	labels    map[string]int
	registers [config.RegisterCount]object.Value
	stack     []object.Value
	frames    []frame
	globals   map[string]object.Value
	heap      *object.Heap
	natives   map[string]inbuilt.Func

	observer StepObserver
	out      io.Writer
	in       *bufio.Reader
}

// New builds a machine over code, with class schemas for heap instancing.
// A nil classes map falls back to the schemas embedded in the code.
// The instruction pointer starts at the _start label.
func New(code *Code, classes map[string]*object.ClassDefinition) *Machine {
	if classes == nil {
		classes = code.Classes
	}
	m := &Machine{
		code:    code,
		labels:  make(map[string]int, len(code.Labels)),
		stack:   make([]object.Value, config.DefaultStackSize),
		globals: make(map[string]object.Value),
		heap:    object.NewHeap(classes),
		natives: inbuilt.Registry(),
		out:     os.Stdout,
		in:      bufio.NewReader(os.Stdin),
	}
	for _, l := range code.Labels {
		m.labels[l.Name] = l.Index
	}
	m.registers[config.RegisterInstruction] = object.Integer(int64(m.labels["_start"]))
	m.registers[config.RegisterStackIndex] = object.Integer(0)
	return m
}

// SetIO redirects console input and output, mainly for tests and the
// debugger harness.
func (m *Machine) SetIO(in io.Reader, out io.Writer) {
	m.in = bufio.NewReader(in)
	m.out = out
}

// SetObserver installs a per-instruction callback. A nil observer keeps the
// run loop untouched.
func (m *Machine) SetObserver(obs StepObserver) { m.observer = obs }

// SetStackSize replaces the operand stack capacity. Call before Run.
func (m *Machine) SetStackSize(n int) {
	if n > 0 {
		m.stack = make([]object.Value, n)
	}
}

// Heap exposes the machine's heap to native functions.
func (m *Machine) Heap() *object.Heap { return m.heap }

// Output is the machine's console writer.
func (m *Machine) Output() io.Writer { return m.out }

// Code returns the program under execution.
func (m *Machine) Code() *Code { return m.code }

// ReadLine blocks for one line of console input, without the newline.
func (m *Machine) ReadLine() (string, error) {
	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (m *Machine) ip() int { return int(m.registers[config.RegisterInstruction].Int) }
func (m *Machine) sp() int { return int(m.registers[config.RegisterStackIndex].Int) }

func (m *Machine) setIP(v int) { m.registers[config.RegisterInstruction] = object.Integer(int64(v)) }
func (m *Machine) setSP(v int) { m.registers[config.RegisterStackIndex] = object.Integer(int64(v)) }

// IP reports the current instruction index, for observers and diagnostics.
func (m *Machine) IP() int { return m.ip() }

// SP reports the current operand stack depth.
func (m *Machine) SP() int { return m.sp() }

// StackAt reads a stack slot without popping it.
func (m *Machine) StackAt(i int) object.Value {
	if i < 0 || i >= len(m.stack) {
		return object.Null()
	}
	return m.stack[i]
}

// Push places a value on the operand stack.
func (m *Machine) Push(v object.Value) error {
	sp := m.sp()
	if sp >= len(m.stack) {
		return errStackOverflow
	}
	m.stack[sp] = v
	m.setSP(sp + 1)
	return nil
}

// Pop removes and returns the top of the operand stack.
func (m *Machine) Pop() (object.Value, error) {
	sp := m.sp()
	if sp == 0 {
		return object.Null(), errStackUnderflow
	}
	m.setSP(sp - 1)
	return m.stack[sp-1], nil
}

func (m *Machine) currentFrame() (*frame, error) {
	if len(m.frames) == 0 {
		return nil, errNoFrame
	}
	return &m.frames[len(m.frames)-1], nil
}

// Run executes until EXIT or a fatal error. A normal exit pops the final
// stack value as the process exit code; any runtime error prints the error
// with the active call chain and yields 1.
func (m *Machine) Run() int {
	for {
		if m.observer != nil {
			if m.observer(m, m.ip()) == StepQuit {
				return 1
			}
		}
		cont, err := m.step()
		if err != nil {
			fmt.Fprintf(m.out, "An error occurred!\n %v\n", err)
			for _, f := range m.frames {
				fmt.Fprintf(m.out, "From <%s>\n", f.name)
			}
			return 1
		}
		if !cont {
			fmt.Fprintln(m.out, "Program exited successfully.")
			v, err := m.Pop()
			if err != nil {
				return 1
			}
			code, err := v.ExpectInt()
			if err != nil {
				return 1
			}
			return int(code)
		}
		m.setIP(m.ip() + 1)
	}
}

// step executes the instruction under the pointer. It reports false when an
// EXIT was reached.
func (m *Machine) step() (bool, error) {
	ip := m.ip()
	if ip < 0 || ip >= len(m.code.Bytecode) {
		return false, fmt.Errorf("instruction pointer %d outside the bytecode", ip)
	}
	ins := m.code.Bytecode[ip]

	switch ins.Op {
	case OpPush:
		return true, m.Push(object.FromStatic(ins.Val))

	case OpPop:
		_, err := m.Pop()
		return true, err

	case OpDup:
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		if err := m.Push(v); err != nil {
			return false, err
		}
		return true, m.Push(v)

	case OpAdd:
		return true, m.arith(object.Add)
	case OpSub:
		return true, m.arith(object.Sub)
	case OpMul:
		return true, m.arith(object.Mul)
	case OpDiv:
		return true, m.arith(object.Div)
	case OpMod:
		return true, m.arith(object.Mod)

	case OpNeg:
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		out, err := object.Neg(v)
		if err != nil {
			return false, err
		}
		return true, m.Push(out)

	case OpAnd, OpOr, OpXor:
		a, b, err := m.popPair()
		if err != nil {
			return false, err
		}
		x, err := a.CastToBool()
		if err != nil {
			return false, err
		}
		y, err := b.CastToBool()
		if err != nil {
			return false, err
		}
		var r bool
		switch ins.Op {
		case OpAnd:
			r = x && y
		case OpOr:
			r = x || y
		default:
			r = x != y
		}
		return true, m.Push(object.Bool(r))

	case OpNot:
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		b, err := v.CastToBool()
		if err != nil {
			return false, err
		}
		return true, m.Push(object.Bool(!b))

	case OpEquals:
		a, b, err := m.popPair()
		if err != nil {
			return false, err
		}
		return true, m.Push(object.Bool(object.Equal(a, b)))

	case OpLesser, OpGreater, OpEqLess, OpEqGreat:
		a, b, err := m.popPair()
		if err != nil {
			return false, err
		}
		cmp, err := object.Compare(a, b)
		if err != nil {
			return false, err
		}
		var r bool
		switch ins.Op {
		case OpLesser:
			r = cmp < 0
		case OpGreater:
			r = cmp > 0
		case OpEqLess:
			r = cmp <= 0
		default:
			r = cmp >= 0
		}
		return true, m.Push(object.Bool(r))

	case OpLength:
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		var n int64
		switch v.Kind {
		case object.KindString:
			n = int64(len([]rune(v.Str)))
		case object.KindRef:
			n, err = m.heap.Len(v.Ref)
			if err != nil {
				return false, err
			}
		default:
			return false, fmt.Errorf("value of kind %s has no length", v.Kind)
		}
		return true, m.Push(object.Integer(n))

	case OpShow:
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		fmt.Fprintln(m.out, m.heap.FormatValue(v))
		return true, nil

	case OpJmpTo:
		idx, ok := m.labels[ins.Sym]
		if !ok {
			return false, fmt.Errorf("unresolved label '%s'", ins.Sym)
		}
		m.setIP(idx - 1)
		return true, nil

	case OpJmpAbs:
		m.setIP(ins.Idx - 1)
		return true, nil

	case OpJmpRel:
		m.setIP(ip + ins.Idx - 1)
		return true, nil

	case OpJitL, OpJitA, OpJitR:
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		cond, err := v.ExpectBool()
		if err != nil {
			return false, err
		}
		if !cond {
			return true, nil
		}
		switch ins.Op {
		case OpJitL:
			idx, ok := m.labels[ins.Sym]
			if !ok {
				return false, fmt.Errorf("unresolved label '%s'", ins.Sym)
			}
			m.setIP(idx - 1)
		case OpJitA:
			m.setIP(ins.Idx - 1)
		default:
			m.setIP(ip + ins.Idx - 1)
		}
		return true, nil

	case OpCall:
		return m.call(ins, ip)

	case OpRet:
		var ret object.Value
		if ins.Flag {
			v, err := m.Pop()
			if err != nil {
				return false, err
			}
			ret = v
		}
		if err := m.unwind(); err != nil {
			return false, err
		}
		if ins.Flag {
			return true, m.Push(ret)
		}
		return true, nil

	case OpExit:
		return false, nil

	case OpDefVar:
		f, err := m.currentFrame()
		if err != nil {
			return false, err
		}
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		f.locals[ins.Sym] = v
		return true, nil

	case OpDropVar:
		f, err := m.currentFrame()
		if err != nil {
			return false, err
		}
		delete(f.locals, ins.Sym)
		return true, nil

	case OpSaveVarLocal:
		f, err := m.currentFrame()
		if err != nil {
			return false, err
		}
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		f.locals[ins.Sym] = v
		return true, nil

	case OpGetVarLocal:
		f, err := m.currentFrame()
		if err != nil {
			return false, err
		}
		v, ok := f.locals[ins.Sym]
		if !ok {
			return false, fmt.Errorf("%w: '%s'", errUndefinedVar, ins.Sym)
		}
		return true, m.Push(v)

	case OpSaveVarGlobal:
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		m.globals[ins.Sym] = v
		return true, nil

	case OpGetVarGlobal:
		v, ok := m.globals[ins.Sym]
		if !ok {
			return false, fmt.Errorf("%w: '%s'", errUndefinedVar, ins.Sym)
		}
		return true, m.Push(v)

	case OpInstance:
		args := make([]object.Value, ins.Argc)
		for i := ins.Argc - 1; i >= 0; i-- {
			v, err := m.Pop()
			if err != nil {
				return false, err
			}
			args[i] = v
		}
		ref, err := m.heap.Alloc(ins.Type, args)
		if err != nil {
			return false, err
		}
		return true, m.Push(object.RefValue(ref))

	case OpGetFromRef:
		rv, err := m.Pop()
		if err != nil {
			return false, err
		}
		ref, err := rv.ExpectRef()
		if err != nil {
			return false, err
		}
		offset, err := m.Pop()
		if err != nil {
			return false, err
		}
		v, err := m.heap.Get(ref, offset)
		if err != nil {
			return false, err
		}
		return true, m.Push(v)

	case OpSaveToRef:
		val, err := m.Pop()
		if err != nil {
			return false, err
		}
		rv, err := m.Pop()
		if err != nil {
			return false, err
		}
		ref, err := rv.ExpectRef()
		if err != nil {
			return false, err
		}
		offset, err := m.Pop()
		if err != nil {
			return false, err
		}
		return true, m.heap.Set(ref, offset, val)

	case OpCast:
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		out, err := v.Cast(ins.Type)
		if err != nil {
			return false, err
		}
		return true, m.Push(out)
	}
	return false, fmt.Errorf("unknown opcode %s at %d", ins.Op, ip)
}

// popPair pops the two operands of a binary instruction. The compiler
// emits right-then-left, so the first pop is the left operand.
func (m *Machine) popPair() (left, right object.Value, err error) {
	left, err = m.Pop()
	if err != nil {
		return
	}
	right, err = m.Pop()
	return
}

func (m *Machine) arith(fn func(a, b object.Value) (object.Value, error)) error {
	a, b, err := m.popPair()
	if err != nil {
		return err
	}
	v, err := fn(a, b)
	if err != nil {
		return err
	}
	return m.Push(v)
}

// call dispatches natives by name without a frame; user calls record the
// return coordinates, leave the arguments in place for the callee's
// parameter definitions, and jump to the function label.
func (m *Machine) call(ins Instruction, ip int) (bool, error) {
	if f, ok := m.natives[ins.Sym]; ok {
		return true, f.Body(m, ins.Argc)
	}

	target := ins.Idx
	if target <= 0 {
		idx, ok := m.labels[ins.Sym]
		if !ok {
			return false, fmt.Errorf("call to unresolved label '%s'", ins.Sym)
		}
		target = idx
	}

	base := m.sp() - ins.Argc
	if base < 0 {
		return false, errStackUnderflow
	}
	m.frames = append(m.frames, frame{
		name:   ins.Sym,
		locals: make(map[string]object.Value),
		retIP:  ip,
		retSP:  base,
	})
	m.setIP(target - 1)
	return true, nil
}

// unwind pops the current frame, restores the saved instruction and stack
// indices and clears the abandoned stack slots.
func (m *Machine) unwind() error {
	if len(m.frames) == 0 {
		return errNoFrame
	}
	f := m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	for i := f.retSP; i < m.sp(); i++ {
		m.stack[i] = object.Null()
	}
	m.setIP(f.retIP)
	m.setSP(f.retSP)
	return nil
}
