package diag

// Parser diagnostic codes.  These are named ERR_* for stable string
// identity across releases; downstream tests assert on these constants
// rather than message text.
const (
	ErrCaseEmptyLabelList        = "ERR_Case_EmptyLabelList"
	ErrCaseInvalidLabel          = "ERR_Case_InvalidLabel"
	ErrSelectCaseDuplicateElse   = "ERR_SelectCase_DuplicateElse"
	ErrSelectCaseMissingEndSelect = "ERR_SelectCase_MissingEndSelect"
	ErrExpectedVariable          = "ERR_Parser_ExpectedVariable"
	ErrUnexpectedToken           = "ERR_Parser_UnexpectedToken"
)

// Semantic analysis diagnostic codes, keyed B0001..B9999.
const (
	// CodeSourceExhausted reports that the source manager ran out of file
	// identifiers.
	CodeSourceExhausted = "B0005"
	// CodeTypeMismatch reports a string/numeric (or otherwise incompatible)
	// type confusion, e.g. "A" * 2.
	CodeTypeMismatch = "B2001"
	// CodeUndeclaredName reports a reference to a name with no binding in
	// any enclosing scope.
	CodeUndeclaredName = "B2002"
	// CodeDuplicateDeclaration reports a name declared twice in one scope.
	CodeDuplicateDeclaration = "B2003"
	// CodeArityMismatch reports a call with the wrong number of arguments.
	CodeArityMismatch = "B2004"
	// CodeReturnTypeMismatch reports a RETURN value incompatible with the
	// enclosing function's declared return type.
	CodeReturnTypeMismatch = "B2005"
	// CodeUnknownLabel reports a GOTO/GOSUB target with no matching label.
	CodeUnknownLabel = "B2006"
	// CodeReturnWithoutGosub reports a RETURN with no matching GOSUB on the
	// call stack.
	CodeReturnWithoutGosub = "B2050"
)
