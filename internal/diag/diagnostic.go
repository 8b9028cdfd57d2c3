// Package diag defines the diagnostic taxonomy shared across every
// compiler stage, plus the error types each stage raises when it fails.
package diag

import (
	"fmt"
	"strings"

	"github.com/rustlite/rlc/internal/token"
)

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer     Stage = "lexer"
	StageParser    Stage = "parser"
	StageResolve   Stage = "resolve"
	StageType      Stage = "type"
	StageExitCheck Stage = "exit-check"
	StageLowering  Stage = "lowering"
	StageCodegen   Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Message  string
	Span     token.Span
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Stage, d.Severity, d.Message)
}

// ParseError is the furthest-reached failure from the combinator parser:
// no alternative matched and no cheaper backtrack was available.
type ParseError struct {
	Span     token.Span
	Expected []string
	Context  []string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if len(e.Expected) > 0 {
		b.WriteString(": expected one of ")
		b.WriteString(strings.Join(dedupe(e.Expected), ", "))
	}
	if len(e.Context) > 0 {
		b.WriteString(" while parsing ")
		b.WriteString(strings.Join(e.Context, " > "))
	}
	return b.String()
}

func (e *ParseError) ToDiagnostic() Diagnostic {
	return Diagnostic{Stage: StageParser, Severity: SeverityError, Message: e.Error(), Span: e.Span}
}

func dedupe(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}

// SemanticError covers name resolution, type checking, and exit-check
// failures: every fatal error raised between HIR construction and MIR
// lowering.
type SemanticError struct {
	Stage   Stage
	Message string
	Span    token.Span
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *SemanticError) ToDiagnostic() Diagnostic {
	return Diagnostic{Stage: e.Stage, Severity: SeverityError, Message: e.Message, Span: e.Span}
}

// NewResolveError reports an unresolved identifier or ambiguous method.
func NewResolveError(span token.Span, format string, args ...any) *SemanticError {
	return &SemanticError{Stage: StageResolve, Message: fmt.Sprintf(format, args...), Span: span}
}

// NewTypeError reports a type mismatch, arity error, or illegal cast/place.
func NewTypeError(span token.Span, format string, args ...any) *SemanticError {
	return &SemanticError{Stage: StageType, Message: fmt.Sprintf(format, args...), Span: span}
}

// NewExitCheckError reports a violation of the `exit` placement rules.
func NewExitCheckError(span token.Span, format string, args ...any) *SemanticError {
	return &SemanticError{Stage: StageExitCheck, Message: fmt.Sprintf(format, args...), Span: span}
}

// InternalError marks a lowering or codegen invariant violated by the
// compiler itself rather than by the input program.
type InternalError struct {
	Stage   Stage
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error (%s): %s", e.Stage, e.Message)
}

// NewLoweringBug reports a MIR lowering invariant violation.
func NewLoweringBug(format string, args ...any) *InternalError {
	return &InternalError{Stage: StageLowering, Message: fmt.Sprintf(format, args...)}
}

// NewCodegenBug reports an LLVM emission invariant violation.
func NewCodegenBug(format string, args ...any) *InternalError {
	return &InternalError{Stage: StageCodegen, Message: fmt.Sprintf(format, args...)}
}
