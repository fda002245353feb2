package analyzer

import (
	"github.com/abra-lang/abra/internal/ast"
	"github.com/abra-lang/abra/internal/typesystem"
)

// typeEval infers an expression's type against the given scope, reporting
// diagnostics as it goes. Failures yield Null so checking can continue with
// an error-recovery type instead of stopping.
func (c *Checker) typeEval(e ast.Expression, vars scope) typesystem.Type {
	switch ex := e.(type) {
	case *ast.Identifier:
		if t, ok := vars[ex.Name]; ok {
			return t
		}
		c.report(errorf("Variable %s not found", ex.Name))
		return typesystem.Null

	case *ast.Literal:
		return ex.Value.Type()

	case *ast.Grouping:
		return c.typeEval(ex.Expr, vars)

	case *ast.Unary:
		operand := c.typeEval(ex.Operand, vars)
		switch ex.Op {
		case ast.OpNeg:
			if typesystem.IsSubtype(operand, typesystem.Integer) {
				return typesystem.Integer
			}
			if typesystem.IsSubtype(operand, typesystem.Float) {
				return typesystem.Float
			}
			c.report(errorf("Unary '-' operator cannot be applied to type '%s'", operand))
		case ast.OpNot:
			if typesystem.IsSubtype(operand, typesystem.Bool) {
				return typesystem.Bool
			}
			c.report(errorf("Unary '!' operator cannot be applied to type '%s'", operand))
		}
		return typesystem.Null

	case *ast.Binary:
		return c.typeEvalBinary(ex, vars)

	case *ast.Call:
		sig, ok := c.functions[ex.Name]
		if !ok {
			c.report(errorf("Global function '%s' not found", ex.Name))
			return typesystem.Null
		}
		if len(ex.Args) != len(sig.Params) {
			c.report(errorf("Function '%s' expected %d arguments, but got %d",
				ex.Name, len(sig.Params), len(ex.Args)))
			return sig.Return
		}
		for i, arg := range ex.Args {
			got := c.typeEval(arg, vars)
			if !typesystem.IsSubtype(got, sig.Params[i]) {
				c.report(errorf("Argument %d for function '%s': expected type '%s', but got '%s'",
					i+1, ex.Name, sig.Params[i], got))
			}
		}
		return sig.Return

	case *ast.Get:
		return c.typeEvalGet(ex, vars)

	case *ast.Index:
		base := c.typeEval(ex.Base, vars)
		key := c.typeEval(ex.Key, vars)
		switch bt := base.(type) {
		case typesystem.ArrayType:
			if !typesystem.IsSubtype(key, typesystem.Integer) {
				c.report(errorf("Array index must be an integer, found '%s'", key))
			}
			return bt.Elem
		case typesystem.MapType:
			if !typesystem.IsSubtype(key, bt.Key) {
				c.report(errorf("Map key expected type '%s', but got '%s'", bt.Key, key))
			}
			return bt.Value
		case typesystem.HeapType:
			return bt.Elem
		}
		c.report(errorf("Cannot index into type '%s'", base))
		return typesystem.Null

	case *ast.Instance:
		return c.typeEvalInstance(ex, vars)
	}
	return typesystem.Null
}

func (c *Checker) typeEvalBinary(ex *ast.Binary, vars scope) typesystem.Type {
	lhs := c.typeEval(ex.Left, vars)
	rhs := c.typeEval(ex.Right, vars)

	isInt := func(t typesystem.Type) bool { return t == typesystem.Type(typesystem.Integer) }
	isFloat := func(t typesystem.Type) bool { return t == typesystem.Type(typesystem.Float) }
	numeric := func(t typesystem.Type) bool { return isInt(t) || isFloat(t) }

	switch ex.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		switch {
		case isInt(lhs) && isInt(rhs):
			return typesystem.Integer
		case numeric(lhs) && numeric(rhs):
			return typesystem.Float
		case ex.Op == ast.OpAdd &&
			lhs == typesystem.Type(typesystem.String) && rhs == typesystem.Type(typesystem.String):
			return typesystem.String
		}
		c.report(errorf("Binary operator '%s' cannot be applied to types '%s' and '%s'",
			ex.Op, lhs, rhs))
		return typesystem.Null

	case ast.OpMod:
		if isInt(lhs) && isInt(rhs) {
			return typesystem.Integer
		}
		c.report(errorf("Binary operator '%%' cannot be applied to types '%s' and '%s'", lhs, rhs))
		return typesystem.Null

	case ast.OpAnd, ast.OpOr, ast.OpXor:
		if lhs == typesystem.Type(typesystem.Bool) && rhs == typesystem.Type(typesystem.Bool) {
			return typesystem.Bool
		}
		c.report(errorf("Logical operator '%s' cannot be applied to types '%s' and '%s'",
			ex.Op, lhs, rhs))
		return typesystem.Null

	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if (numeric(lhs) && numeric(rhs)) ||
			(lhs == typesystem.Type(typesystem.Char) && rhs == typesystem.Type(typesystem.Char)) {
			return typesystem.Bool
		}
		c.report(errorf("Comparison operator '%s' cannot be applied to types '%s' and '%s'",
			ex.Op, lhs, rhs))
		return typesystem.Null

	case ast.OpEq, ast.OpNe:
		lp, lIsPrim := lhs.(typesystem.Primitive)
		rp, rIsPrim := rhs.(typesystem.Primitive)
		la, lIsAbra := lhs.(typesystem.AbraType)
		ra, rIsAbra := rhs.(typesystem.AbraType)
		_, lIsNull := lhs.(typesystem.NullType)
		_, rIsNull := rhs.(typesystem.NullType)
		switch {
		case lIsPrim && rIsPrim && lp == rp:
			return typesystem.Bool
		case numeric(lhs) && numeric(rhs):
			return typesystem.Bool
		case lIsAbra && rIsAbra && la.Name == ra.Name:
			return typesystem.Bool
		case lIsNull || rIsNull:
			return typesystem.Bool
		case typesystem.IsSubtype(lhs, rhs) || typesystem.IsSubtype(rhs, lhs):
			return typesystem.Bool
		}
		c.report(warningf("Equality operator '%s' may not behave as expected for types '%s' and '%s'",
			ex.Op, lhs, rhs))
		return typesystem.Null
	}
	return typesystem.Null
}

func (c *Checker) typeEvalGet(ex *ast.Get, vars scope) typesystem.Type {
	base := c.typeEval(ex.Base, vars)
	switch bt := base.(type) {
	case typesystem.AbraType:
		def, ok := c.classes[bt.Name]
		if !ok {
			c.report(errorf("Class definition '%s' not found for access", bt.Name))
			return typesystem.Null
		}
		if t, ok := def.FieldType(ex.Member); ok {
			return t
		}
		if _, ok := def.Methods[ex.Member]; ok {
			c.report(errorf("Accessing method '%s' on class '%s' as a value is not directly supported. Call it with ().",
				ex.Member, bt.Name))
			return typesystem.Null
		}
		c.report(errorf("Member '%s' not found in class '%s'", ex.Member, bt.Name))
		return typesystem.Null

	case typesystem.ArrayType:
		if ex.Member == "length" {
			return typesystem.Integer
		}
	case typesystem.MapType:
		if ex.Member == "size" {
			return typesystem.Integer
		}
	case typesystem.HeapType:
		// a box has no synthetic members, fall through to the error
	case typesystem.Primitive:
		if bt == typesystem.String && ex.Member == "length" {
			return typesystem.Integer
		}
	}
	c.report(errorf("Member access '%s' not supported on type '%s'", ex.Member, base))
	return typesystem.Null
}

func (c *Checker) typeEvalInstance(ex *ast.Instance, vars scope) typesystem.Type {
	switch t := ex.Type.(type) {
	case typesystem.AbraType:
		def, ok := c.classes[t.Name]
		if !ok {
			c.report(errorf("Cannot instantiate unknown class '%s'", t.Name))
			return typesystem.Null
		}
		init, hasInit := def.Methods["init"]
		if !hasInit {
			if len(ex.Args) != 0 {
				c.report(errorf("Class '%s' does not have an 'init' constructor, but arguments were provided.", t.Name))
			}
			return t
		}
		if len(ex.Args) != len(init.Params) {
			c.report(errorf("Constructor for '%s' expected %d arguments, but got %d",
				t.Name, len(init.Params), len(ex.Args)))
			return t
		}
		for i, arg := range ex.Args {
			got := c.typeEval(arg, vars)
			if !typesystem.IsSubtype(got, init.Params[i]) {
				c.report(errorf("Argument %d for '%s' constructor: expected type '%s', but got '%s'",
					i+1, t.Name, init.Params[i], got))
			}
		}
		return t

	case typesystem.ArrayType:
		for _, arg := range ex.Args {
			got := c.typeEval(arg, vars)
			if !typesystem.IsSubtype(got, t.Elem) {
				c.report(errorf("Array element expected type '%s', but got '%s'", t.Elem, got))
			}
		}
		return t

	case typesystem.MapType:
		if len(ex.Args)%2 != 0 {
			c.report(errorf("Map instantiation requires an even number of arguments (key-value pairs), got %d", len(ex.Args)))
			return t
		}
		for i := 0; i < len(ex.Args); i += 2 {
			key := c.typeEval(ex.Args[i], vars)
			val := c.typeEval(ex.Args[i+1], vars)
			if !typesystem.IsSubtype(key, t.Key) {
				c.report(errorf("Map key expected type '%s', but got '%s'", t.Key, key))
			}
			if !typesystem.IsSubtype(val, t.Value) {
				c.report(errorf("Map value expected type '%s', but got '%s'", t.Value, val))
			}
		}
		return t

	case typesystem.HeapType:
		if len(ex.Args) != 1 {
			c.report(errorf("Box (HeapValue) instantiation expects 1 argument, got %d", len(ex.Args)))
			return t
		}
		got := c.typeEval(ex.Args[0], vars)
		if !typesystem.IsSubtype(got, t.Elem) {
			c.report(errorf("Box (HeapValue) expected inner type '%s', but got '%s'", t.Elem, got))
		}
		return t

	case typesystem.OrType:
		c.report(errorf("Cannot instantiate algebraic type '%s' using 'new'", ex.Type))
		return typesystem.Null
	}
	c.report(errorf("Cannot instantiate primitive type '%s' or Null using 'new'", ex.Type))
	return typesystem.Null
}
