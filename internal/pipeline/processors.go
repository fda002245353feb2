package pipeline

import (
	"github.com/abra-lang/abra/internal/analyzer"
	"github.com/abra-lang/abra/internal/ast"
	"github.com/abra-lang/abra/internal/inbuilt"
	"github.com/abra-lang/abra/internal/vm"
)

// CheckProcessor runs the two-pass checker and exports its namespaces.
// Warnings and infos pass through; at least one error blocks the build.
type CheckProcessor struct{}

func (CheckProcessor) Process(ctx *PipelineContext) *PipelineContext {
	checker := analyzer.New(ctx.Items)
	ctx.Messages = checker.Check()
	ctx.Functions = checker.Functions()
	ctx.Classes = checker.Classes()
	if analyzer.HasErrors(ctx.Messages) {
		ctx.Err = ErrTypeCheck
	}
	return ctx
}

// CompileProcessor lowers the checked program to bytecode.
type CompileProcessor struct{}

func (CompileProcessor) Process(ctx *PipelineContext) *PipelineContext {
	ctx.Code = vm.NewCompiler(ctx.Functions).Compile(ctx.Items)
	ctx.Code.Classes = ctx.Classes
	return ctx
}

// ResolveProcessor rewrites symbolic labels into absolute jump targets.
type ResolveProcessor struct{}

func (ResolveProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if err := ctx.Code.Resolve(inbuilt.Names()); err != nil {
		ctx.Err = err
	}
	return ctx
}

// Build runs the standard pipeline over a parsed program. The returned
// context carries the resolved code, the exported namespaces and every
// diagnostic, with Err set when the build is unusable.
func Build(items []ast.Item) *PipelineContext {
	return New(
		CheckProcessor{},
		CompileProcessor{},
		ResolveProcessor{},
	).Run(NewPipelineContext(items))
}
