package sema

import (
	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/token"
)

const exitFuncName = "exit"

// runExitCheck enforces the separate exit-check sweep (§4.3): `main`'s body
// must end with a direct call to `exit` as its final statement, with no
// trailing tail expression, and `exit` may not be called anywhere else.
func runExitCheck(prog *hir.Program) error {
	mainID, ok := prog.FuncByName["main"]
	if !ok {
		return diag.NewExitCheckError(token.Span{}, "program has no 'main' function")
	}
	mainFn := prog.Funcs[mainID]
	if mainFn.Body == nil {
		return diag.NewExitCheckError(mainFn.Span, "'main' has no body")
	}

	required := requiredExitCall(mainFn)
	if required == nil {
		return diag.NewExitCheckError(mainFn.Body.Span(), "'main' must end with a call to 'exit' as its final statement")
	}

	var strayErr error
	for _, fn := range prog.Funcs {
		if fn.Body == nil || strayErr != nil {
			continue
		}
		walkBlockCalls(fn.Body, func(call *hir.Call) {
			if strayErr != nil || call == required {
				return
			}
			if isExitCall(call) {
				strayErr = diag.NewExitCheckError(call.Span(), "'exit' may only be called as the final statement of 'main'")
			}
		})
	}
	return strayErr
}

// requiredExitCall returns the Call node occupying main's mandated final
// position, or nil if the body does not end that way.
func requiredExitCall(fn *hir.Function) *hir.Call {
	blk := fn.Body
	if blk.Tail != nil || len(blk.Stmts) == 0 {
		return nil
	}
	last, ok := blk.Stmts[len(blk.Stmts)-1].(*hir.ExprStmt)
	if !ok {
		return nil
	}
	call, ok := last.Expr.(*hir.Call)
	if !ok || !isExitCall(call) {
		return nil
	}
	return call
}

func isExitCall(call *hir.Call) bool {
	fu, ok := call.Callee.(*hir.FuncUse)
	return ok && fu.Name == exitFuncName
}

// walkBlockCalls visits every *hir.Call reachable from blk, depth-first.
func walkBlockCalls(blk *hir.Block, visit func(*hir.Call)) {
	for _, st := range blk.Stmts {
		walkStmtCalls(st, visit)
	}
	if blk.Tail != nil {
		walkExprCalls(blk.Tail, visit)
	}
}

func walkStmtCalls(s hir.Stmt, visit func(*hir.Call)) {
	switch st := s.(type) {
	case *hir.LetStmt:
		if st.Init != nil {
			walkExprCalls(st.Init, visit)
		}
	case *hir.ExprStmt:
		walkExprCalls(st.Expr, visit)
	}
}

func walkExprCalls(e hir.Expr, visit func(*hir.Call)) {
	switch n := e.(type) {
	case *hir.Unary:
		walkExprCalls(n.Operand, visit)
	case *hir.Binary:
		walkExprCalls(n.Left, visit)
		walkExprCalls(n.Right, visit)
	case *hir.Assign:
		walkExprCalls(n.Target, visit)
		walkExprCalls(n.Rhs, visit)
	case *hir.Cast:
		walkExprCalls(n.Operand, visit)
	case *hir.ArrayInit:
		for _, el := range n.Elements {
			walkExprCalls(el, visit)
		}
	case *hir.ArrayRepeat:
		walkExprCalls(n.Value, visit)
		if n.CountExpr != nil {
			walkExprCalls(n.CountExpr, visit)
		}
	case *hir.Index:
		walkExprCalls(n.Target, visit)
		walkExprCalls(n.IndexExpr, visit)
	case *hir.StructLiteral:
		for _, f := range n.Fields {
			walkExprCalls(f.Value, visit)
		}
	case *hir.Call:
		walkExprCalls(n.Callee, visit)
		for _, a := range n.Args {
			walkExprCalls(a, visit)
		}
		visit(n)
	case *hir.MethodCall:
		walkExprCalls(n.Receiver, visit)
		for _, a := range n.Args {
			walkExprCalls(a, visit)
		}
	case *hir.FieldAccess:
		walkExprCalls(n.Target, visit)
	case *hir.If:
		walkExprCalls(n.Cond, visit)
		walkBlockCalls(n.Then, visit)
		if n.Else != nil {
			walkExprCalls(n.Else, visit)
		}
	case *hir.Loop:
		walkBlockCalls(n.Body, visit)
	case *hir.While:
		walkExprCalls(n.Cond, visit)
		walkBlockCalls(n.Body, visit)
	case *hir.ReturnExpr:
		if n.Value != nil {
			walkExprCalls(n.Value, visit)
		}
	case *hir.BreakExpr:
		if n.Value != nil {
			walkExprCalls(n.Value, visit)
		}
	case *hir.Block:
		walkBlockCalls(n, visit)
	}
}
