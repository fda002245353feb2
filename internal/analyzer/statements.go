package analyzer

import (
	"github.com/abra-lang/abra/internal/ast"
	"github.com/abra-lang/abra/internal/typesystem"
)

func (c *Checker) checkBlock(stmts []ast.Statement, vars scope, ret typesystem.Type) {
	for _, stmt := range stmts {
		c.checkStatement(stmt, vars, ret)
	}
}

func (c *Checker) checkStatement(stmt ast.Statement, vars scope, ret typesystem.Type) {
	switch st := stmt.(type) {
	case *ast.Declare:
		got := c.typeEval(st.Value, vars)
		if !typesystem.IsSubtype(got, st.Type) {
			c.report(errorf("Type mismatch in declaration of '%s'. Expected '%s', found '%s'",
				st.Name, st.Type, got))
		}
		if _, shadowed := vars[st.Name]; shadowed {
			c.report(warningf("Variable '%s' shadows a variable in an outer scope.", st.Name))
		}
		vars[st.Name] = st.Type

	case *ast.Set:
		want, ok := vars[st.Name]
		if !ok {
			c.report(errorf("Variable '%s' not found for assignment.", st.Name))
			return
		}
		got := c.typeEval(st.Value, vars)
		if !typesystem.IsSubtype(got, want) {
			c.report(errorf("Type mismatch in assignment to '%s'. Expected '%s', found '%s'",
				st.Name, want, got))
		}

	case *ast.SetMember:
		base := c.typeEval(st.Target, vars)
		abra, ok := base.(typesystem.AbraType)
		if !ok {
			c.report(errorf("Cannot assign member '%s' on type '%s'", st.Member, base))
			return
		}
		def, ok := c.classes[abra.Name]
		if !ok {
			c.report(errorf("Class definition '%s' not found for access", abra.Name))
			return
		}
		want, ok := def.FieldType(st.Member)
		if !ok {
			c.report(errorf("Member '%s' not found in class '%s'", st.Member, abra.Name))
			return
		}
		got := c.typeEval(st.Value, vars)
		if !typesystem.IsSubtype(got, want) {
			c.report(errorf("Type mismatch in assignment to '%s.%s'. Expected '%s', found '%s'",
				abra.Name, st.Member, want, got))
		}

	case *ast.SetIndex:
		base := c.typeEval(st.Target, vars)
		got := c.typeEval(st.Value, vars)
		key := c.typeEval(st.Key, vars)
		switch bt := base.(type) {
		case typesystem.ArrayType:
			if !typesystem.IsSubtype(key, typesystem.Integer) {
				c.report(errorf("Array index must be an integer, found '%s'", key))
			}
			if !typesystem.IsSubtype(got, bt.Elem) {
				c.report(errorf("Array element expected type '%s', but got '%s'", bt.Elem, got))
			}
		case typesystem.MapType:
			if !typesystem.IsSubtype(key, bt.Key) {
				c.report(errorf("Map key expected type '%s', but got '%s'", bt.Key, key))
			}
			if !typesystem.IsSubtype(got, bt.Value) {
				c.report(errorf("Map value expected type '%s', but got '%s'", bt.Value, got))
			}
		case typesystem.HeapType:
			if !typesystem.IsSubtype(got, bt.Elem) {
				c.report(errorf("Box (HeapValue) expected inner type '%s', but got '%s'", bt.Elem, got))
			}
		default:
			c.report(errorf("Cannot index into type '%s'", base))
		}

	case *ast.ExpressionStmt:
		c.typeEval(st.Expr, vars)

	case *ast.Print:
		c.typeEval(st.Expr, vars)

	case *ast.Return:
		got := typesystem.Type(typesystem.Null)
		if st.Value != nil {
			got = c.typeEval(st.Value, vars)
		}
		if ret == nil {
			c.report(errorf("Return statement outside of a function."))
			return
		}
		if !typesystem.IsSubtype(got, ret) {
			c.report(errorf("Return type mismatch. Expected '%s', found '%s'", ret, got))
		}

	case *ast.If:
		cond := c.typeEval(st.Cond, vars)
		if !typesystem.IsSubtype(cond, typesystem.Bool) {
			c.report(errorf("If condition must be a boolean, found '%s'", cond))
		}
		c.checkBlock(st.Then, vars.clone(), ret)
		if st.Else != nil {
			c.checkBlock(st.Else, vars.clone(), ret)
		}

	case *ast.For:
		loopVars := vars.clone()
		if st.Init != nil {
			c.checkStatement(st.Init, loopVars, ret)
		}
		cond := c.typeEval(st.Cond, loopVars)
		if !typesystem.IsSubtype(cond, typesystem.Bool) {
			c.report(errorf("For loop condition must be a boolean, found '%s'", cond))
		}
		c.checkBlock(st.Body, loopVars.clone(), ret)
		if st.Post != nil {
			c.checkStatement(st.Post, loopVars, ret)
		}

	case *ast.NullStmt:
		// nothing to check
	}
}
