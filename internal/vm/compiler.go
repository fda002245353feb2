package vm

import (
	"fmt"

	"github.com/abra-lang/abra/internal/ast"
	"github.com/abra-lang/abra/internal/typesystem"
)

// Compiler lowers a checked program into Code. It needs the exported call
// namespace to know which calls leave a value on the stack.
type Compiler struct {
	code      Code
	labelIter int
	functions map[string]typesystem.FunctionSignature
}

// NewCompiler builds a compiler over the checker's exported signatures.
func NewCompiler(functions map[string]typesystem.FunctionSignature) *Compiler {
	return &Compiler{functions: functions}
}

// Compile emits the universal entry sequence and then every function and
// method body, each bound to its label. Methods are labelled Class::method
// and share the global call namespace.
func (c *Compiler) Compile(items []ast.Item) *Code {
	c.bindLabel("_start", 0)
	c.emit(Instruction{Op: OpCall, Sym: "main"})
	c.emit(Instruction{Op: OpExit})

	for _, item := range items {
		switch it := item.(type) {
		case *ast.Function:
			c.compileFunction(it.Name, it)
		case *ast.Class:
			for _, m := range it.Methods {
				c.compileFunction(fmt.Sprintf("%s::%s", it.Name, m.Name), m)
			}
		}
	}
	return &c.code
}

func (c *Compiler) emit(ins Instruction) {
	c.code.Bytecode = append(c.code.Bytecode, ins)
}

func (c *Compiler) bindLabel(name string, index int) {
	c.code.Labels = append(c.code.Labels, LabelEntry{Name: name, Index: index})
}

func (c *Compiler) here() int { return len(c.code.Bytecode) }

func (c *Compiler) nextLabel() string {
	name := fmt.Sprintf("_%d", c.labelIter)
	c.labelIter++
	return name
}

// compileFunction binds the entry label and pre-loads the parameters as
// local definitions in reverse order, so arguments pushed left-to-right pop
// into the matching names.
func (c *Compiler) compileFunction(label string, fn *ast.Function) {
	c.bindLabel(label, c.here())
	for i := len(fn.Params) - 1; i >= 0; i-- {
		p := fn.Params[i]
		c.emit(Instruction{Op: OpDefVar, Sym: p.Name, Type: p.Type})
	}
	c.compileBody(fn.Body, nil)
}

// compileBody compiles a statement block. A block given an external drop
// accumulator feeds its declarations into it; a block owning its own scope
// emits a DROPVAR per declared name when it ends.
func (c *Compiler) compileBody(stmts []ast.Statement, dropInto *[]string) {
	ownScope := dropInto == nil
	var own []string
	if ownScope {
		dropInto = &own
	}
	for _, stmt := range stmts {
		c.compileStatement(stmt, dropInto)
	}
	if ownScope {
		for _, name := range own {
			c.emit(Instruction{Op: OpDropVar, Sym: name})
		}
	}
}

func (c *Compiler) compileStatement(stmt ast.Statement, out *[]string) {
	switch st := stmt.(type) {
	case *ast.Declare:
		c.compileExpression(st.Value)
		c.emit(Instruction{Op: OpDefVar, Sym: st.Name, Type: st.Type})
		*out = append(*out, st.Name)

	case *ast.Set:
		c.compileExpression(st.Value)
		c.emit(Instruction{Op: OpSaveVarLocal, Sym: st.Name})

	case *ast.SetMember:
		c.emit(Instruction{Op: OpPush, Val: ast.StringValue(st.Member)})
		c.compileExpression(st.Target)
		c.compileExpression(st.Value)
		c.emit(Instruction{Op: OpSaveToRef})

	case *ast.SetIndex:
		c.compileExpression(st.Key)
		c.compileExpression(st.Target)
		c.compileExpression(st.Value)
		c.emit(Instruction{Op: OpSaveToRef})

	case *ast.ExpressionStmt:
		c.compileExpression(st.Expr)
		if c.leavesValue(st.Expr) {
			c.emit(Instruction{Op: OpPop})
		}

	case *ast.Print:
		c.compileExpression(st.Expr)
		c.emit(Instruction{Op: OpShow})

	case *ast.Return:
		if st.Value != nil {
			c.compileExpression(st.Value)
			c.emit(Instruction{Op: OpRet, Flag: true})
		} else {
			c.emit(Instruction{Op: OpRet})
		}

	case *ast.If:
		c.compileExpression(st.Cond)
		c.emit(Instruction{Op: OpNot})
		end := c.nextLabel()
		c.emit(Instruction{Op: OpJitL, Sym: end})
		c.compileBody(st.Then, nil)
		if st.Else == nil {
			c.bindLabel(end, c.here())
		} else {
			c.bindLabel(end, c.here()+1)
			done := c.nextLabel()
			c.emit(Instruction{Op: OpJmpTo, Sym: done})
			c.compileBody(st.Else, nil)
			c.bindLabel(done, c.here())
		}

	case *ast.For:
		var loopVars []string
		if st.Init != nil {
			c.compileStatement(st.Init, &loopVars)
		}
		top := c.here()
		c.compileExpression(st.Cond)
		c.emit(Instruction{Op: OpNot})
		exit := c.nextLabel()
		c.emit(Instruction{Op: OpJitL, Sym: exit})
		c.compileBody(st.Body, &loopVars)
		if st.Post != nil {
			c.compileStatement(st.Post, out)
		}
		again := c.nextLabel()
		c.emit(Instruction{Op: OpJmpTo, Sym: again})
		c.bindLabel(exit, c.here())
		for _, name := range loopVars {
			c.emit(Instruction{Op: OpDropVar, Sym: name})
		}
		c.bindLabel(again, top)

	case *ast.NullStmt:
		// nothing
	}
}

func (c *Compiler) compileExpression(expr ast.Expression) {
	switch ex := expr.(type) {
	case *ast.Identifier:
		c.emit(Instruction{Op: OpGetVarLocal, Sym: ex.Name})

	case *ast.Literal:
		c.emit(Instruction{Op: OpPush, Val: ex.Value})

	case *ast.Grouping:
		c.compileExpression(ex.Expr)

	case *ast.Unary:
		c.compileExpression(ex.Operand)
		switch ex.Op {
		case ast.OpNeg:
			c.emit(Instruction{Op: OpNeg})
		case ast.OpNot:
			c.emit(Instruction{Op: OpNot})
		}

	case *ast.Binary:
		// right before left, so the first pop is the left operand
		c.compileExpression(ex.Right)
		c.compileExpression(ex.Left)
		switch ex.Op {
		case ast.OpAdd:
			c.emit(Instruction{Op: OpAdd})
		case ast.OpSub:
			c.emit(Instruction{Op: OpSub})
		case ast.OpMul:
			c.emit(Instruction{Op: OpMul})
		case ast.OpDiv:
			c.emit(Instruction{Op: OpDiv})
		case ast.OpMod:
			c.emit(Instruction{Op: OpMod})
		case ast.OpAnd:
			c.emit(Instruction{Op: OpAnd})
		case ast.OpOr:
			c.emit(Instruction{Op: OpOr})
		case ast.OpXor:
			c.emit(Instruction{Op: OpXor})
		case ast.OpLt:
			c.emit(Instruction{Op: OpLesser})
		case ast.OpLe:
			c.emit(Instruction{Op: OpEqLess})
		case ast.OpGt:
			c.emit(Instruction{Op: OpGreater})
		case ast.OpGe:
			c.emit(Instruction{Op: OpEqGreat})
		case ast.OpEq:
			c.emit(Instruction{Op: OpEquals})
		case ast.OpNe:
			c.emit(Instruction{Op: OpEquals})
			c.emit(Instruction{Op: OpNot})
		}

	case *ast.Call:
		for _, arg := range ex.Args {
			c.compileExpression(arg)
		}
		c.emit(Instruction{Op: OpCall, Sym: ex.Name, Argc: len(ex.Args)})

	case *ast.Get:
		if ex.Member == "length" || ex.Member == "size" {
			c.compileExpression(ex.Base)
			c.emit(Instruction{Op: OpLength})
			return
		}
		c.emit(Instruction{Op: OpPush, Val: ast.StringValue(ex.Member)})
		c.compileExpression(ex.Base)
		c.emit(Instruction{Op: OpGetFromRef})

	case *ast.Index:
		c.compileExpression(ex.Key)
		c.compileExpression(ex.Base)
		c.emit(Instruction{Op: OpGetFromRef})

	case *ast.Instance:
		for _, arg := range ex.Args {
			c.compileExpression(arg)
		}
		c.emit(Instruction{Op: OpInstance, Type: ex.Type, Argc: len(ex.Args)})
	}
}

// leavesValue reports whether an expression statement leaves a result on
// the stack that must be popped. Only calls to null-returning functions
// push nothing.
func (c *Compiler) leavesValue(expr ast.Expression) bool {
	call, ok := expr.(*ast.Call)
	if !ok {
		return true
	}
	sig, ok := c.functions[call.Name]
	if !ok {
		return true
	}
	_, isNull := sig.Return.(typesystem.NullType)
	return !isNull
}
