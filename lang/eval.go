package lang

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/LouLouLibs/NickelEval/errors"
	"github.com/LouLouLibs/NickelEval/value"
)

// Env is a chain of single bindings. Lookup walks outward to the
// globals frame.
type Env struct {
	parent *Env
	name   string
	val    value.Value
}

func (e *Env) bind(name string, val value.Value) *Env {
	return &Env{parent: e, name: name, val: val}
}

func (e *Env) lookup(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.parent {
		if env.name == name {
			return env.val, true
		}
	}
	return value.Value{}, false
}

// closure is a user function value. Application binds parameters one at
// a time, so partial application works for free.
type closure struct {
	params []string
	body   Node
	env    *Env
}

// builtin is a std-library function value. Arguments accumulate until
// arity is reached.
type builtin struct {
	name  string
	arity int
	args  []value.Value
	fn    func(it *Interp, args []value.Value) (value.Value, *errors.Error)
}

// Option configures an Interp.
type Option func(*Interp)

// WithLogger routes evaluation trace output to the given logger. The
// default is a no-op logger: evaluation never writes to a shared
// output stream as a side effect.
func WithLogger(log *zap.Logger) Option {
	return func(it *Interp) { it.log = log }
}

// Interp is a strict tree-walking evaluator. It keeps no state between
// Eval calls and a single Interp may be reused freely.
type Interp struct {
	log     *zap.Logger
	globals *Env
}

// New creates an interpreter with the std namespace bound.
func New(opts ...Option) *Interp {
	it := &Interp{log: zap.NewNop()}
	for _, opt := range opts {
		opt(it)
	}
	it.globals = &Env{name: "std", val: stdNamespace()}
	return it
}

// Eval parses and fully evaluates source text. The returned tree is
// always fully evaluated; failures are ParseError (phase parse) or
// EvalError (phase eval) diagnostics.
func (it *Interp) Eval(src string) (value.Value, *errors.Error) {
	prog, err := Parse(src)
	if err != nil {
		it.log.Debug("parse failed", zap.String("error", err.Error()))
		return value.Value{}, err
	}

	result, err := it.eval(prog, it.globals)
	if err != nil {
		it.log.Debug("evaluation failed", zap.String("error", err.Error()))
		return value.Value{}, err
	}
	it.log.Debug("evaluation finished", zap.Stringer("kind", result.Kind))
	return result, nil
}

func (it *Interp) eval(n Node, env *Env) (value.Value, *errors.Error) {
	switch n := n.(type) {
	case *NullLit:
		return value.Null(), nil

	case *BoolLit:
		return value.Bool(n.Val), nil

	case *NumLit:
		return value.Num(n.Val), nil

	case *StrLit:
		return value.Str(n.Val), nil

	case *EnumLit:
		return value.Enum(n.Tag), nil

	case *Ident:
		if v, ok := env.lookup(n.Name); ok {
			return v, nil
		}
		return value.Value{}, errors.UnboundIdentifier(n.Name, n.Line, n.Col)

	case *ArrayLit:
		elems := make([]value.Value, len(n.Elems))
		for i, e := range n.Elems {
			v, err := it.eval(e, env)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = v
		}
		return value.Arr(elems...), nil

	case *RecordLit:
		fields := make([]value.Field, 0, len(n.Fields))
		for _, f := range n.Fields {
			for _, seen := range fields {
				if seen.Name == f.Name {
					return value.Value{}, errors.New(errors.PhaseEval, errors.KindInvalidData).
						Pos(n.Line, n.Col).
						Detail("duplicate record field %q", f.Name).
						Build()
				}
			}
			v, err := it.eval(f.Value, env)
			if err != nil {
				return value.Value{}, err
			}
			fv := v
			fields = append(fields, value.Field{Name: f.Name, Value: &fv})
		}
		return value.Rec(fields...), nil

	case *Let:
		bound, err := it.eval(n.Bound, env)
		if err != nil {
			return value.Value{}, err
		}
		return it.eval(n.Body, env.bind(n.Name, bound))

	case *Fun:
		return value.Func(&closure{params: n.Params, body: n.Body, env: env}), nil

	case *App:
		fn, err := it.eval(n.Fn, env)
		if err != nil {
			return value.Value{}, err
		}
		arg, err := it.eval(n.Arg, env)
		if err != nil {
			return value.Value{}, err
		}
		line, col := n.Pos()
		return it.apply(fn, arg, line, col)

	case *Unary:
		return it.evalUnary(n, env)

	case *Binary:
		return it.evalBinary(n, env)

	case *FieldAccess:
		target, err := it.eval(n.Target, env)
		if err != nil {
			return value.Value{}, err
		}
		if target.Kind != value.KindRecord {
			return value.Value{}, errors.New(errors.PhaseEval, errors.KindTypeMismatch).
				Pos(n.Line, n.Col).
				Detail("cannot access field %q on %s", n.Name, target.Kind).
				Build()
		}
		if v, ok := target.Lookup(n.Name); ok {
			return v, nil
		}
		return value.Value{}, errors.FieldMissing(nil, n.Name)

	case *If:
		cond, err := it.eval(n.Cond, env)
		if err != nil {
			return value.Value{}, err
		}
		if cond.Kind != value.KindBool {
			return value.Value{}, errors.New(errors.PhaseEval, errors.KindTypeMismatch).
				Pos(n.Line, n.Col).
				Detail("if condition must be Bool, got %s", cond.Kind).
				Build()
		}
		if cond.Bool {
			return it.eval(n.Then, env)
		}
		return it.eval(n.Else, env)
	}

	line, col := n.Pos()
	return value.Value{}, errors.New(errors.PhaseEval, errors.KindInvalidData).
		Pos(line, col).
		Detail("unhandled expression form").
		Build()
}

// apply applies a function-like value to one argument. A bare enum tag
// applied to an argument becomes an enum variant.
func (it *Interp) apply(fn, arg value.Value, line, col int) (value.Value, *errors.Error) {
	switch fn.Kind {
	case value.KindFunction:
		switch f := fn.Fn.(type) {
		case *closure:
			env := f.env.bind(f.params[0], arg)
			if len(f.params) > 1 {
				return value.Func(&closure{params: f.params[1:], body: f.body, env: env}), nil
			}
			return it.eval(f.body, env)

		case *builtin:
			args := make([]value.Value, len(f.args), f.arity)
			copy(args, f.args)
			args = append(args, arg)
			if len(args) < f.arity {
				return value.Func(&builtin{name: f.name, arity: f.arity, args: args, fn: f.fn}), nil
			}
			return f.fn(it, args)
		}

	case value.KindEnum:
		if fn.Arg == nil {
			return value.Variant(fn.Tag, arg), nil
		}
	}

	return value.Value{}, errors.New(errors.PhaseEval, errors.KindNotAFunction).
		Pos(line, col).
		Detail("cannot apply %s as a function", fn.Kind).
		Build()
}

func (it *Interp) evalUnary(n *Unary, env *Env) (value.Value, *errors.Error) {
	operand, err := it.eval(n.Operand, env)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case TokenMinus:
		if operand.Kind != value.KindNumber {
			return value.Value{}, errors.New(errors.PhaseEval, errors.KindTypeMismatch).
				Pos(n.Line, n.Col).
				Detail("unary '-' needs a Number, got %s", operand.Kind).
				Build()
		}
		return value.Num(new(big.Rat).Neg(operand.Num)), nil
	case TokenBang:
		if operand.Kind != value.KindBool {
			return value.Value{}, errors.New(errors.PhaseEval, errors.KindTypeMismatch).
				Pos(n.Line, n.Col).
				Detail("'!' needs a Bool, got %s", operand.Kind).
				Build()
		}
		return value.Bool(!operand.Bool), nil
	}
	return value.Value{}, errors.New(errors.PhaseEval, errors.KindInvalidData).
		Pos(n.Line, n.Col).
		Detail("unknown unary operator").
		Build()
}

func (it *Interp) evalBinary(n *Binary, env *Env) (value.Value, *errors.Error) {
	// Boolean operators short-circuit.
	if n.Op == TokenAnd || n.Op == TokenOr {
		left, err := it.eval(n.Left, env)
		if err != nil {
			return value.Value{}, err
		}
		if left.Kind != value.KindBool {
			return value.Value{}, it.boolOpMismatch(n, left)
		}
		if n.Op == TokenAnd && !left.Bool {
			return value.Bool(false), nil
		}
		if n.Op == TokenOr && left.Bool {
			return value.Bool(true), nil
		}
		right, err := it.eval(n.Right, env)
		if err != nil {
			return value.Value{}, err
		}
		if right.Kind != value.KindBool {
			return value.Value{}, it.boolOpMismatch(n, right)
		}
		return value.Bool(right.Bool), nil
	}

	left, err := it.eval(n.Left, env)
	if err != nil {
		return value.Value{}, err
	}
	right, err := it.eval(n.Right, env)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent:
		return it.arith(n, left, right)

	case TokenConcat:
		if left.Kind == value.KindString && right.Kind == value.KindString {
			return value.Str(left.Str + right.Str), nil
		}
		if left.Kind == value.KindArray && right.Kind == value.KindArray {
			out := make([]value.Value, 0, len(left.Arr)+len(right.Arr))
			out = append(out, left.Arr...)
			out = append(out, right.Arr...)
			return value.Arr(out...), nil
		}
		return value.Value{}, errors.New(errors.PhaseEval, errors.KindTypeMismatch).
			Pos(n.Line, n.Col).
			Detail("'++' needs two Strings or two Arrays, got %s and %s", left.Kind, right.Kind).
			Build()

	case TokenEq:
		return value.Bool(left.Equal(right)), nil
	case TokenNotEq:
		return value.Bool(!left.Equal(right)), nil

	case TokenLess, TokenLessEq, TokenGreater, TokenGreatEq:
		return it.compare(n, left, right)

	case TokenMerge:
		return mergeValues(left, right, nil, n.Line, n.Col)
	}

	return value.Value{}, errors.New(errors.PhaseEval, errors.KindInvalidData).
		Pos(n.Line, n.Col).
		Detail("unknown binary operator").
		Build()
}

func (it *Interp) boolOpMismatch(n *Binary, got value.Value) *errors.Error {
	op := "&&"
	if n.Op == TokenOr {
		op = "||"
	}
	return errors.New(errors.PhaseEval, errors.KindTypeMismatch).
		Pos(n.Line, n.Col).
		Detail("'%s' needs Bool operands, got %s", op, got.Kind).
		Build()
}

func (it *Interp) arith(n *Binary, left, right value.Value) (value.Value, *errors.Error) {
	if left.Kind != value.KindNumber || right.Kind != value.KindNumber {
		return value.Value{}, errors.New(errors.PhaseEval, errors.KindTypeMismatch).
			Pos(n.Line, n.Col).
			Detail("arithmetic needs Number operands, got %s and %s", left.Kind, right.Kind).
			Build()
	}

	l, r := left.Num, right.Num
	switch n.Op {
	case TokenPlus:
		return value.Num(new(big.Rat).Add(l, r)), nil
	case TokenMinus:
		return value.Num(new(big.Rat).Sub(l, r)), nil
	case TokenStar:
		return value.Num(new(big.Rat).Mul(l, r)), nil
	case TokenSlash:
		if r.Sign() == 0 {
			return value.Value{}, errors.New(errors.PhaseEval, errors.KindDivisionByZero).
				Pos(n.Line, n.Col).
				Detail("division by zero").
				Build()
		}
		return value.Num(new(big.Rat).Quo(l, r)), nil
	case TokenPercent:
		if !l.IsInt() || !r.IsInt() {
			return value.Value{}, errors.New(errors.PhaseEval, errors.KindTypeMismatch).
				Pos(n.Line, n.Col).
				Detail("'%%' needs integer operands").
				Build()
		}
		if r.Sign() == 0 {
			return value.Value{}, errors.New(errors.PhaseEval, errors.KindDivisionByZero).
				Pos(n.Line, n.Col).
				Detail("modulo by zero").
				Build()
		}
		rem := new(big.Int).Rem(l.Num(), r.Num())
		return value.Num(new(big.Rat).SetInt(rem)), nil
	}
	return value.Value{}, nil
}

func (it *Interp) compare(n *Binary, left, right value.Value) (value.Value, *errors.Error) {
	var cmp int
	switch {
	case left.Kind == value.KindNumber && right.Kind == value.KindNumber:
		cmp = left.Num.Cmp(right.Num)
	case left.Kind == value.KindString && right.Kind == value.KindString:
		switch {
		case left.Str < right.Str:
			cmp = -1
		case left.Str > right.Str:
			cmp = 1
		}
	default:
		return value.Value{}, errors.New(errors.PhaseEval, errors.KindTypeMismatch).
			Pos(n.Line, n.Col).
			Detail("cannot compare %s and %s", left.Kind, right.Kind).
			Build()
	}

	switch n.Op {
	case TokenLess:
		return value.Bool(cmp < 0), nil
	case TokenLessEq:
		return value.Bool(cmp <= 0), nil
	case TokenGreater:
		return value.Bool(cmp > 0), nil
	default:
		return value.Bool(cmp >= 0), nil
	}
}

// mergeValues implements '&'. Records merge field-wise: shared fields
// merge recursively, left-hand field order is kept, right-only fields
// append in their own order. Non-record values merge only when equal.
func mergeValues(left, right value.Value, path []string, line, col int) (value.Value, *errors.Error) {
	if left.Kind == value.KindRecord && right.Kind == value.KindRecord {
		out := make([]value.Field, 0, len(left.Rec)+len(right.Rec))
		for _, lf := range left.Rec {
			rv, ok := right.Lookup(lf.Name)
			if !ok {
				out = append(out, lf)
				continue
			}
			lv := value.Null()
			if lf.Value != nil {
				lv = *lf.Value
			}
			fieldPath := append(append([]string{}, path...), lf.Name)
			merged, err := mergeValues(lv, rv, fieldPath, line, col)
			if err != nil {
				return value.Value{}, err
			}
			out = append(out, value.Field{Name: lf.Name, Value: &merged})
		}
		for _, rf := range right.Rec {
			if _, ok := left.Lookup(rf.Name); !ok {
				out = append(out, rf)
			}
		}
		return value.Rec(out...), nil
	}

	if left.Equal(right) {
		return left, nil
	}

	return value.Value{}, errors.New(errors.PhaseEval, errors.KindMergeConflict).
		Pos(line, col).
		Path(path...).
		Detail("cannot merge %s with %s", left.Kind, right.Kind).
		Build()
}
