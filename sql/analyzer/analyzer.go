// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package analyzer

import (
	"os"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/plan"
)

const debugAnalyzerKey = "DEBUG_ANALYZER"

const maxAnalysisIterations = 16

// ErrMaxAnalysisIters is thrown when the analysis iterations are exceeded
var ErrMaxAnalysisIters = errors.NewKind("exceeded max analysis iterations (%d)")

// ErrInvalidNodeType is thrown when the analyzer can't handle a particular kind of node type
var ErrInvalidNodeType = errors.NewKind("%s: invalid node of type: %T")

// Options changes how the rules rewrite a query.
type Options struct {
	// UseRelationalNulls keeps the store's three-valued comparison
	// semantics and skips the null semantics expansion.
	UseRelationalNulls bool
	// OptimizedNullExpansion allows the shorter expansion of nullable
	// comparisons in positions where null and false are equivalent. It is
	// only correct for stores that later rewrite such comparisons into a
	// searched CASE.
	OptimizedNullExpansion bool
}

// Builder provides an easy way to generate Analyzer with custom rules and options.
type Builder struct {
	preRules  []Rule
	postRules []Rule
	options   Options
	debug     bool
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithDebug activates debug on the Analyzer.
func (ab *Builder) WithDebug() *Builder {
	ab.debug = true

	return ab
}

// WithOptions sets the rewrite options of the Analyzer.
func (ab *Builder) WithOptions(o Options) *Builder {
	ab.options = o

	return ab
}

// AddPreRule adds a new rule to the analyzer before the standard rules.
func (ab *Builder) AddPreRule(name string, fn RuleFunc) *Builder {
	ab.preRules = append(ab.preRules, Rule{name, fn})

	return ab
}

// AddPostRule adds a new rule to the analyzer after the standard rules.
func (ab *Builder) AddPostRule(name string, fn RuleFunc) *Builder {
	ab.postRules = append(ab.postRules, Rule{name, fn})

	return ab
}

// Build creates a new Analyzer using all previous data set to the Builder.
func (ab *Builder) Build() *Analyzer {
	_, debug := os.LookupEnv(debugAnalyzerKey)
	var batches = []*Batch{
		{
			Desc:       "pre-rules",
			Iterations: maxAnalysisIterations,
			Rules:      ab.preRules,
		},
		{
			Desc:       "parameter-expansion",
			Iterations: 1,
			Rules:      OnceBefore,
		},
		{
			Desc:       "simplification",
			Iterations: maxAnalysisIterations,
			Rules:      DefaultRules,
		},
		{
			Desc:       "post-rules",
			Iterations: maxAnalysisIterations,
			Rules:      ab.postRules,
		},
	}

	return &Analyzer{
		Debug:    debug || ab.debug,
		debugCtx: make([]string, 0),
		Batches:  batches,
		Options:  ab.options,
	}
}

// Analyzer rewrites a query tree for a concrete set of parameter values
// by applying batches of rules to it.
type Analyzer struct {
	// Whether to log various debugging messages
	Debug    bool
	debugCtx []string
	// Batches of Rules to apply.
	Batches []*Batch
	// Options of the rewrites.
	Options Options
}

// NewDefault creates a default Analyzer instance with all default Rules and
// the given options. To add custom rules, the easiest way is use the Builder.
func NewDefault(o Options) *Analyzer {
	return NewBuilder().WithOptions(o).Build()
}

// Log prints an INFO message to stdout with the given message and args
// if the analyzer is in debug mode.
func (a *Analyzer) Log(msg string, args ...interface{}) {
	if a != nil && a.Debug {
		if len(a.debugCtx) > 0 {
			ctx := strings.Join(a.debugCtx, "/")
			logrus.Infof("%s: "+msg, append([]interface{}{ctx}, args...)...)
		} else {
			logrus.Infof(msg, args...)
		}
	}
}

// PushDebugContext pushes the given context string onto the context stack, to use when logging debug messages.
func (a *Analyzer) PushDebugContext(msg string) {
	if a != nil {
		a.debugCtx = append(a.debugCtx, msg)
	}
}

// PopDebugContext pops a context message off the context stack.
func (a *Analyzer) PopDebugContext() {
	if a != nil && len(a.debugCtx) > 0 {
		a.debugCtx = a.debugCtx[:len(a.debugCtx)-1]
	}
}

// Process rewrites the query for the given parameter values. It returns the
// rewritten query and whether the result can be reused for other values
// with the same parameter shape.
func (a *Analyzer) Process(ctx *sql.Context, n *plan.Select, params sql.ParameterValues) (*plan.Select, bool, error) {
	span, ctx := ctx.Span("analyze", opentracing.Tags{
		"plan": n.String(),
	})
	defer span.Finish()

	// every call gets its own debug context
	a = a.copy()
	st := NewState(params)

	var prev sql.Node = n
	var err error
	a.Log("starting analysis of node of type: %T", n)
	for _, batch := range a.Batches {
		a.PushDebugContext(batch.Desc)
		prev, err = batch.Eval(ctx, a, prev, st)
		a.PopDebugContext()
		if ErrMaxAnalysisIters.Is(err) {
			a.Log(err.Error())
			continue
		}
		if err != nil {
			return nil, false, err
		}
	}

	sel, ok := prev.(*plan.Select)
	if !ok {
		return nil, false, ErrInvalidNodeType.New("analyze", prev)
	}

	span.SetTag("canCache", st.CanCache())
	return sel, st.CanCache(), nil
}

func (a *Analyzer) copy() *Analyzer {
	na := *a
	na.debugCtx = make([]string, 0, len(a.debugCtx))
	return &na
}
