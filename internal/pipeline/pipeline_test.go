package pipeline

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/abra-lang/abra/internal/ast"
	"github.com/abra-lang/abra/internal/typesystem"
	"github.com/abra-lang/abra/internal/vm"
)

func program(body ...ast.Statement) []ast.Item {
	return []ast.Item{&ast.Function{
		Name:   "main",
		Return: typesystem.Integer,
		Body:   body,
	}}
}

func TestBuildProducesRunnableCode(t *testing.T) {
	ctx := Build(program(
		&ast.Return{Value: &ast.Binary{Op: ast.OpSub,
			Left:  &ast.Literal{Value: ast.IntegerValue(5)},
			Right: &ast.Literal{Value: ast.IntegerValue(2)}}},
	))
	if ctx.Err != nil {
		t.Fatalf("build: %v", ctx.Err)
	}
	if ctx.Code == nil {
		t.Fatal("no code produced")
	}

	m := vm.New(ctx.Code, ctx.Classes)
	var out bytes.Buffer
	m.SetIO(strings.NewReader(""), &out)
	if exit := m.Run(); exit != 3 {
		t.Fatalf("exit = %d, want 3", exit)
	}
}

func TestBuildBlocksOnCheckerErrors(t *testing.T) {
	ctx := Build(program(
		&ast.Return{Value: &ast.Identifier{Name: "ghost"}},
	))
	if !errors.Is(ctx.Err, ErrTypeCheck) {
		t.Fatalf("err = %v, want ErrTypeCheck", ctx.Err)
	}
	if ctx.Code != nil {
		t.Fatal("compilation must not run after a blocked check")
	}
	if len(ctx.Messages) == 0 {
		t.Fatal("checker messages missing from the context")
	}
}

func TestWarningsDoNotBlockBuild(t *testing.T) {
	// shadowing an outer variable is only a warning
	ctx := Build(program(
		&ast.Declare{Name: "x", Type: typesystem.Integer,
			Value: &ast.Literal{Value: ast.IntegerValue(1)}},
		&ast.If{
			Cond: &ast.Literal{Value: ast.BoolValue(true)},
			Then: []ast.Statement{
				&ast.Declare{Name: "x", Type: typesystem.Integer,
					Value: &ast.Literal{Value: ast.IntegerValue(2)}},
			},
		},
		&ast.Return{Value: &ast.Identifier{Name: "x"}},
	))
	if ctx.Err != nil {
		t.Fatalf("warnings must not block: %v", ctx.Err)
	}
	if len(ctx.Messages) == 0 {
		t.Fatal("the equality warning should be on the context")
	}
}

func TestCleanProgramsAlwaysResolve(t *testing.T) {
	// anything the checker accepts must resolve without label errors
	fact := &ast.Function{
		Name:   "fact",
		Params: []ast.Parameter{{Name: "n", Type: typesystem.Integer}},
		Return: typesystem.Integer,
		Body: []ast.Statement{
			&ast.If{
				Cond: &ast.Binary{Op: ast.OpLt,
					Left:  &ast.Identifier{Name: "n"},
					Right: &ast.Literal{Value: ast.IntegerValue(2)}},
				Then: []ast.Statement{&ast.Return{Value: &ast.Literal{Value: ast.IntegerValue(1)}}},
			},
			&ast.Return{Value: &ast.Binary{Op: ast.OpMul,
				Left: &ast.Identifier{Name: "n"},
				Right: &ast.Call{Name: "fact", Args: []ast.Expression{
					&ast.Binary{Op: ast.OpSub,
						Left:  &ast.Identifier{Name: "n"},
						Right: &ast.Literal{Value: ast.IntegerValue(1)}},
				}}}},
		},
	}
	items := append(program(
		&ast.Return{Value: &ast.Call{Name: "fact",
			Args: []ast.Expression{&ast.Literal{Value: ast.IntegerValue(5)}}}},
	), fact)

	ctx := Build(items)
	if ctx.Err != nil {
		t.Fatalf("build: %v", ctx.Err)
	}
	m := vm.New(ctx.Code, ctx.Classes)
	var out bytes.Buffer
	m.SetIO(strings.NewReader(""), &out)
	if exit := m.Run(); exit != 120 {
		t.Fatalf("fact(5) exited %d, want 120", exit)
	}
}

func TestClassSchemasTravelWithCode(t *testing.T) {
	items := []ast.Item{
		&ast.Class{
			Name: "Point",
			Fields: []ast.FieldDecl{
				{Name: "x", Type: typesystem.Integer, Default: ast.IntegerValue(3)},
				{Name: "y", Type: typesystem.Integer, Default: ast.IntegerValue(4)},
			},
		},
		&ast.Function{
			Name:   "main",
			Return: typesystem.Integer,
			Body: []ast.Statement{
				&ast.Declare{Name: "p", Type: typesystem.Abra("Point"),
					Value: &ast.Instance{Type: typesystem.Abra("Point")}},
				&ast.Return{Value: &ast.Get{Member: "x", Base: &ast.Identifier{Name: "p"}}},
			},
		},
	}
	ctx := Build(items)
	if ctx.Err != nil {
		t.Fatalf("build: %v", ctx.Err)
	}
	if ctx.Code.Classes["Point"] == nil {
		t.Fatal("class schema missing from the compiled code")
	}

	// a machine built from the code alone still knows how to instance
	m := vm.New(ctx.Code, nil)
	var out bytes.Buffer
	m.SetIO(strings.NewReader(""), &out)
	if exit := m.Run(); exit != 3 {
		t.Fatalf("p.x exited %d, want the default 3", exit)
	}
}

func TestStagesShortCircuitAfterError(t *testing.T) {
	boom := errors.New("boom")
	first := processorFunc(func(ctx *PipelineContext) *PipelineContext {
		ctx.Err = boom
		return ctx
	})
	second := processorFunc(func(ctx *PipelineContext) *PipelineContext {
		t.Fatal("stage ran after a recorded error")
		return ctx
	})
	ctx := New(first, second).Run(NewPipelineContext(nil))
	if !errors.Is(ctx.Err, boom) {
		t.Fatalf("err = %v, want boom", ctx.Err)
	}
}

type processorFunc func(*PipelineContext) *PipelineContext

func (f processorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }
