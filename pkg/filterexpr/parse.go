package filterexpr

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

type predicate struct {
	Field string
	Op    Op
	Value any
}

var comparisonOps = map[string]Op{
	"_==_": OpEQ,
	"_>_":  OpGT,
	"_>=_": OpGTE,
	"_<_":  OpLT,
	"_<=_": OpLTE,
}

func parseFilter(filter string, fields map[string]FilterField) ([]predicate, error) {
	env, err := buildEnv(fields)
	if err != nil {
		return nil, err
	}

	ast, issues := env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to convert AST: %w", err)
	}

	conjuncts, err := flattenAnd(parsed.GetExpr())
	if err != nil {
		return nil, err
	}
	preds := make([]predicate, 0, len(conjuncts))
	for _, expr := range conjuncts {
		pred, err := parsePredicate(expr)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	return preds, nil
}

func buildEnv(fields map[string]FilterField) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	for name, rule := range fields {
		celType, err := celTypeForKind(rule.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		opts = append(opts, cel.Variable(name, celType))
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

func celTypeForKind(kind ValueKind) (*cel.Type, error) {
	switch kind {
	case KindString:
		return cel.StringType, nil
	case KindNumber:
		return cel.DoubleType, nil
	case KindTimestamp:
		return cel.TimestampType, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %s", kind)
	}
}

// flattenAnd returns the operands of a (possibly nested) && chain.
func flattenAnd(expr *exprpb.Expr) ([]*exprpb.Expr, error) {
	if expr == nil {
		return nil, errors.New("empty expression")
	}
	call := expr.GetCallExpr()
	if call == nil {
		return []*exprpb.Expr{expr}, nil
	}

	switch call.Function {
	case "_&&_":
		if len(call.Args) < 2 || call.Target != nil {
			return nil, errors.New("logical AND must have at least two operands")
		}
		var out []*exprpb.Expr
		for _, arg := range call.Args {
			nested, err := flattenAnd(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
		return out, nil
	case "_||_", "_?_:_", "!_":
		return nil, fmt.Errorf("logical operator %q is not supported; only AND is allowed", call.Function)
	default:
		return []*exprpb.Expr{expr}, nil
	}
}

func parsePredicate(expr *exprpb.Expr) (predicate, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return predicate{}, errors.New("unsupported expression; expected comparison or function call")
	}

	if op, ok := comparisonOps[call.Function]; ok {
		if call.Target != nil || len(call.Args) != 2 {
			return predicate{}, fmt.Errorf("operator %q expects two operands", string(op))
		}
		return buildPredicate(op, call.Args[0], call.Args[1])
	}

	switch call.Function {
	case "@in", "_in_":
		// `x in list` parses as @in(x, list).
		fieldExpr, listExpr, err := operands(call, "in")
		if err != nil {
			return predicate{}, err
		}
		if call.Target != nil {
			fieldExpr, listExpr = listExpr, fieldExpr
		}
		return buildPredicate(OpIN, fieldExpr, listExpr)
	case "startsWith":
		fieldExpr, valueExpr, err := operands(call, "startsWith")
		if err != nil {
			return predicate{}, err
		}
		pred, err := buildPredicate(OpSW, fieldExpr, valueExpr)
		if err != nil {
			return predicate{}, err
		}
		if _, ok := pred.Value.(string); !ok {
			return predicate{}, errors.New("startsWith requires a string literal argument")
		}
		return pred, nil
	default:
		return predicate{}, fmt.Errorf("function %q is not supported", call.Function)
	}
}

// operands splits a call into its two operands, accepting both receiver and global call styles.
func operands(call *exprpb.Expr_Call, name string) (*exprpb.Expr, *exprpb.Expr, error) {
	if call.Target != nil {
		if len(call.Args) != 1 {
			return nil, nil, fmt.Errorf("%s with receiver must have exactly one argument", name)
		}
		return call.Target, call.Args[0], nil
	}
	if len(call.Args) != 2 {
		return nil, nil, fmt.Errorf("%s expects two operands", name)
	}
	return call.Args[0], call.Args[1], nil
}

func buildPredicate(op Op, fieldExpr, valueExpr *exprpb.Expr) (predicate, error) {
	ident := fieldExpr.GetIdentExpr()
	if ident == nil {
		return predicate{}, errors.New("left-hand side must be an identifier")
	}
	value, err := parseLiteral(valueExpr)
	if err != nil {
		return predicate{}, err
	}
	return predicate{Field: ident.GetName(), Op: op, Value: value}, nil
}

func parseLiteral(expr *exprpb.Expr) (any, error) {
	if constant := expr.GetConstExpr(); constant != nil {
		switch constant.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return constant.GetStringValue(), nil
		case *exprpb.Constant_Int64Value:
			return float64(constant.GetInt64Value()), nil
		case *exprpb.Constant_Uint64Value:
			return float64(constant.GetUint64Value()), nil
		case *exprpb.Constant_DoubleValue:
			return constant.GetDoubleValue(), nil
		default:
			return nil, fmt.Errorf("literal type %T is not supported", constant.ConstantKind)
		}
	}

	if list := expr.GetListExpr(); list != nil {
		elements := list.GetElements()
		values := make([]string, len(elements))
		for i, elem := range elements {
			val, err := parseLiteral(elem)
			if err != nil {
				return nil, fmt.Errorf("list literal element %d: %w", i, err)
			}
			str, ok := val.(string)
			if !ok {
				return nil, errors.New("list literal elements must be strings")
			}
			values[i] = str
		}
		return values, nil
	}

	if call := expr.GetCallExpr(); call != nil && call.Function == "timestamp" {
		return parseTimestamp(call)
	}

	return nil, errors.New("right-hand side must be a literal, list literal, or timestamp() call")
}

func parseTimestamp(call *exprpb.Expr_Call) (time.Time, error) {
	if call.Target != nil || len(call.Args) != 1 {
		return time.Time{}, errors.New("timestamp() expects a single string argument")
	}
	arg := call.Args[0].GetConstExpr()
	if arg == nil {
		return time.Time{}, errors.New("timestamp() argument must be a string literal")
	}
	str := arg.GetStringValue()
	if str == "" {
		return time.Time{}, errors.New("timestamp() argument must not be empty")
	}
	t, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp literal %q is not RFC3339", str)
	}
	return t, nil
}

func validateLiteral(kind ValueKind, op Op, value any) error {
	switch kind {
	case KindString:
		if op == OpGT || op == OpLT {
			return fmt.Errorf("operator %q requires a number or timestamp field", string(op))
		}
		if op != OpIN {
			if _, ok := value.(string); !ok {
				return fmt.Errorf("expected %s literal", kind)
			}
			return nil
		}
		list, ok := value.([]string)
		if !ok {
			return fmt.Errorf("expected list of %s literals", kind)
		}
		if len(list) == 0 {
			return errors.New("list literal must not be empty")
		}
		for _, item := range list {
			if item == "" {
				return errors.New("list literal must not contain empty strings")
			}
		}
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	case KindTimestamp:
		if _, ok := value.(time.Time); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
	return nil
}
