package resolve

// OverloadableBinaryOperator is a binary operator backed by a lang item
// trait.
type OverloadableBinaryOperator interface {
	TraitName() string
	ItemName() string
	ModName() string
	Sign() string
}

// ArithmeticOp is an arithmetic or bitwise binary operator.
type ArithmeticOp uint8

const (
	OpAdd ArithmeticOp = iota + 1
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

type opInfo struct {
	trait string
	item  string
	mod   string
	sign  string
}

var arithmeticOps = [...]opInfo{
	OpAdd:    {"Add", "add", "arith", "+"},
	OpSub:    {"Sub", "sub", "arith", "-"},
	OpMul:    {"Mul", "mul", "arith", "*"},
	OpDiv:    {"Div", "div", "arith", "/"},
	OpRem:    {"Rem", "rem", "arith", "%"},
	OpBitAnd: {"BitAnd", "bitand", "bit", "&"},
	OpBitOr:  {"BitOr", "bitor", "bit", "|"},
	OpBitXor: {"BitXor", "bitxor", "bit", "^"},
	OpShl:    {"Shl", "shl", "bit", "<<"},
	OpShr:    {"Shr", "shr", "bit", ">>"},
}

// ArithmeticOps lists every arithmetic operator in declaration order.
func ArithmeticOps() []ArithmeticOp {
	out := make([]ArithmeticOp, 0, len(arithmeticOps)-1)
	for op := OpAdd; op <= OpShr; op++ {
		out = append(out, op)
	}
	return out
}

func (op ArithmeticOp) info() opInfo {
	if op < OpAdd || op > OpShr {
		return opInfo{}
	}
	return arithmeticOps[op]
}

func (op ArithmeticOp) TraitName() string { return op.info().trait }
func (op ArithmeticOp) ItemName() string  { return op.info().item }
func (op ArithmeticOp) ModName() string   { return op.info().mod }
func (op ArithmeticOp) Sign() string      { return op.info().sign }
func (op ArithmeticOp) String() string    { return op.info().sign }

// ArithmeticAssignmentOp is a compound assignment such as +=.
type ArithmeticAssignmentOp struct {
	Op ArithmeticOp
}

func (a ArithmeticAssignmentOp) TraitName() string { return a.Op.TraitName() + "Assign" }
func (a ArithmeticAssignmentOp) ItemName() string  { return a.Op.ItemName() + "_assign" }
func (a ArithmeticAssignmentOp) ModName() string   { return a.Op.ModName() }
func (a ArithmeticAssignmentOp) Sign() string      { return a.Op.Sign() + "=" }

// ComparisonOp is an equality or ordering operator.
type ComparisonOp uint8

const (
	OpEq ComparisonOp = iota + 1
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var comparisonSigns = [...]string{OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">="}

func (op ComparisonOp) isEquality() bool { return op == OpEq || op == OpNe }

func (op ComparisonOp) TraitName() string {
	if op.isEquality() {
		return "PartialEq"
	}
	return "PartialOrd"
}

func (op ComparisonOp) ItemName() string {
	if op.isEquality() {
		return "eq"
	}
	return "ord"
}

func (ComparisonOp) ModName() string { return "cmp" }

func (op ComparisonOp) Sign() string {
	if op < OpEq || op > OpGe {
		return "?"
	}
	return comparisonSigns[op]
}

// ParseBinaryOperator maps an operator sign to its operator.
func ParseBinaryOperator(sign string) (OverloadableBinaryOperator, bool) {
	for _, op := range ArithmeticOps() {
		if op.Sign() == sign {
			return op, true
		}
		if a := (ArithmeticAssignmentOp{Op: op}); a.Sign() == sign {
			return a, true
		}
	}
	for op := OpEq; op <= OpGe; op++ {
		if op.Sign() == sign {
			return op, true
		}
	}
	return nil, false
}
