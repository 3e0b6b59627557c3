package interp

// Value is a runtime value: an int64, a float64, or a bool (spec §3's
// Frame.members value tags). Frames also store nil for a declared
// variable not yet assigned, and the *ast.ProcedureDecl or
// *ast.FunctionDecl bound under a procedure's or function's name.
type Value interface{}
