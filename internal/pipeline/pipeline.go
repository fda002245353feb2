// Package pipeline chains the build stages: check, compile, resolve. Each
// stage reads and extends a shared context, and later stages are skipped
// once a blocking error is recorded.
package pipeline

import (
	"errors"

	"github.com/abra-lang/abra/internal/analyzer"
	"github.com/abra-lang/abra/internal/ast"
	"github.com/abra-lang/abra/internal/object"
	"github.com/abra-lang/abra/internal/typesystem"
	"github.com/abra-lang/abra/internal/vm"
)

// PipelineContext carries a program through the stages.
type PipelineContext struct {
	Items []ast.Item

	// set by the check stage
	Messages  []analyzer.Message
	Functions map[string]typesystem.FunctionSignature
	Classes   map[string]*object.ClassDefinition

	// set by the compile stage
	Code *vm.Code

	// first blocking failure
	Err error
}

// NewPipelineContext wraps a parsed program.
func NewPipelineContext(items []ast.Item) *PipelineContext {
	return &PipelineContext{Items: items}
}

// Processor is one build stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline is a sequence of processors.
type Pipeline struct {
	processors []Processor
}

// New assembles a pipeline from stages.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run feeds the context through every stage. A stage that records Err
// short-circuits the rest.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, proc := range p.processors {
		if ctx.Err != nil {
			return ctx
		}
		ctx = proc.Process(ctx)
	}
	return ctx
}

// ErrTypeCheck marks a compilation blocked by checker errors; the messages
// on the context hold the details.
var ErrTypeCheck = errors.New("type check failed")
