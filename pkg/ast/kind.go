package ast

// Kind is the closed set of syntactic shapes the pruner distinguishes.
// Grammar node types that the pruner never branches on map to KindOther;
// the raw grammar type is still available on Node.Type.
type Kind uint8

const (
	KindOther Kind = iota
	KindProgram
	KindFunction
	KindCall
	KindNew
	KindAssign
	KindMember
	KindIndex
	KindObject
	KindPair
	KindComputedKey
	KindString
	KindNumber
	KindIdent
	KindPropertyName
	KindArray
	KindArguments
	KindBlock
	KindExprStmt
	KindVarDecl
	KindDeclarator
	KindReturn
	KindExport
	KindParen
	KindSequence
	KindError
	KindComment
	KindPunct
)

var kindNames = [...]string{
	KindOther:        "other",
	KindProgram:      "program",
	KindFunction:     "function",
	KindCall:         "call",
	KindNew:          "new",
	KindAssign:       "assign",
	KindMember:       "member",
	KindIndex:        "index",
	KindObject:       "object",
	KindPair:         "pair",
	KindComputedKey:  "computed_key",
	KindString:       "string",
	KindNumber:       "number",
	KindIdent:        "ident",
	KindPropertyName: "property_name",
	KindArray:        "array",
	KindArguments:    "arguments",
	KindBlock:        "block",
	KindExprStmt:     "expr_stmt",
	KindVarDecl:      "var_decl",
	KindDeclarator:   "declarator",
	KindReturn:       "return",
	KindExport:       "export",
	KindParen:        "paren",
	KindSequence:     "sequence",
	KindError:        "error",
	KindComment:      "comment",
	KindPunct:        "punct",
}

// String returns the string representation.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindOf maps a tree-sitter-javascript node type to its Kind.
// Unnamed tokens are punctuation regardless of their type string.
func KindOf(nodeType string, named bool) Kind {
	if !named {
		return KindPunct
	}
	switch nodeType {
	case "program":
		return KindProgram
	case "function_declaration", "generator_function_declaration",
		"function", "function_expression", "generator_function",
		"arrow_function", "method_definition":
		return KindFunction
	case "call_expression":
		return KindCall
	case "new_expression":
		return KindNew
	case "assignment_expression", "augmented_assignment_expression":
		return KindAssign
	case "member_expression":
		return KindMember
	case "subscript_expression":
		return KindIndex
	case "object":
		return KindObject
	case "pair":
		return KindPair
	case "computed_property_name":
		return KindComputedKey
	case "string":
		return KindString
	case "number":
		return KindNumber
	case "identifier":
		return KindIdent
	case "property_identifier", "private_property_identifier":
		return KindPropertyName
	case "array":
		return KindArray
	case "arguments":
		return KindArguments
	case "statement_block":
		return KindBlock
	case "expression_statement":
		return KindExprStmt
	case "variable_declaration", "lexical_declaration":
		return KindVarDecl
	case "variable_declarator":
		return KindDeclarator
	case "return_statement":
		return KindReturn
	case "export_statement":
		return KindExport
	case "parenthesized_expression":
		return KindParen
	case "sequence_expression":
		return KindSequence
	case "ERROR":
		return KindError
	case "comment", "html_comment":
		return KindComment
	default:
		return KindOther
	}
}

// AssignOp is the operator sub-tag of a KindAssign node. Every compound
// operator is treated the same way by the pruner; the tag is kept so
// printers and diagnostics can tell them apart.
type AssignOp uint8

const (
	OpNone AssignOp = iota
	OpAssign
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpExp
	OpShl
	OpShr
	OpUShr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpLogicalAnd
	OpLogicalOr
	OpNullish
)

var assignOps = map[string]AssignOp{
	"=":    OpAssign,
	"+=":   OpAdd,
	"-=":   OpSub,
	"*=":   OpMul,
	"/=":   OpDiv,
	"%=":   OpMod,
	"**=":  OpExp,
	"<<=":  OpShl,
	">>=":  OpShr,
	">>>=": OpUShr,
	"&=":   OpBitAnd,
	"|=":   OpBitOr,
	"^=":   OpBitXor,
	"&&=":  OpLogicalAnd,
	"||=":  OpLogicalOr,
	"??=":  OpNullish,
}

// ParseAssignOp returns the operator for its source token, or OpNone.
func ParseAssignOp(token string) AssignOp {
	return assignOps[token]
}

// String returns the operator token.
func (op AssignOp) String() string {
	for tok, o := range assignOps {
		if o == op {
			return tok
		}
	}
	return ""
}
