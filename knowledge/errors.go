package knowledge

import "errors"

var (
	ErrNilRecord         = errors.New("knowledge: nil record")
	ErrEmptyID           = errors.New("knowledge: empty record identifier")
	ErrUnknownPlace      = errors.New("knowledge: unknown place")
	ErrUnknownTransition = errors.New("knowledge: unknown transition")
	ErrUnknownArc        = errors.New("knowledge: unknown arc")
	ErrCoefficientShape  = errors.New("knowledge: coefficient vector length does not match element list")
	ErrNegativeTokens    = errors.New("knowledge: negative token count")
	ErrBadConfidence     = errors.New("knowledge: confidence outside [0,1]")
	ErrEmptyTrace        = errors.New("knowledge: trace has no samples")
	ErrBadFormula        = errors.New("knowledge: unparseable chemical formula")
	ErrSchemaVersion     = errors.New("knowledge: unsupported document schema version")
	ErrDocumentNotFound  = errors.New("knowledge: document not found")
)
