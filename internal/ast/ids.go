package ast

type (
	// FileID identifies a translation unit.
	FileID uint32
	// StmtID identifies a (function-level) statement handle.
	StmtID uint32
	// ExprID identifies an expression node.
	ExprID uint32
	// TypeID identifies a type-name expression parsed by the declaration
	// collaborator (cast targets, sizeof operands, compound-literal types,
	// _Generic associations, function-literal signatures).
	TypeID uint32
	// PayloadID indexes the per-kind payload arena backing an ExprID.
	PayloadID uint32
	// ArgID indexes one entry in the flat call-argument pool (see
	// Exprs.Args).
	ArgID uint32
	// InitNodeID indexes one entry in the flat preorder designated-
	// initializer pool (see Exprs.InitNodes).
	InitNodeID uint32
	// GenericAssocID indexes one entry in the _Generic association pool.
	GenericAssocID uint32
)

const (
	// NoFileID indicates no file.
	NoFileID FileID = 0
	// NoStmtID indicates no statement.
	NoStmtID StmtID = 0
	// NoExprID indicates no expression.
	NoExprID ExprID = 0
	// NoTypeID indicates no type expression.
	NoTypeID TypeID = 0
	// NoPayloadID indicates no payload.
	NoPayloadID PayloadID = 0
	// NoArgID indicates no argument pool entry.
	NoArgID ArgID = 0
	// NoInitNodeID indicates no init-node pool entry.
	NoInitNodeID InitNodeID = 0
	// NoGenericAssocID indicates no _Generic association.
	NoGenericAssocID GenericAssocID = 0
)

// IsValid reports whether the FileID is valid (non-zero).
func (id FileID) IsValid() bool { return id != NoFileID }

// IsValid reports whether the StmtID is valid (non-zero).
func (id StmtID) IsValid() bool { return id != NoStmtID }

// IsValid reports whether the ExprID is valid (non-zero).
func (id ExprID) IsValid() bool { return id != NoExprID }

// IsValid reports whether the TypeID is valid (non-zero).
func (id TypeID) IsValid() bool { return id != NoTypeID }

// IsValid reports whether the PayloadID is valid (non-zero).
func (id PayloadID) IsValid() bool { return id != NoPayloadID }

// IsValid reports whether the ArgID is valid (non-zero).
func (id ArgID) IsValid() bool { return id != NoArgID }

// IsValid reports whether the InitNodeID is valid (non-zero).
func (id InitNodeID) IsValid() bool { return id != NoInitNodeID }

// IsValid reports whether the GenericAssocID is valid (non-zero).
func (id GenericAssocID) IsValid() bool { return id != NoGenericAssocID }
