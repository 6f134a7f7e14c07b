package history

import "errors"

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrStructuralInCompound indicates a layer insert or merge was grouped
	// into a CompoundCommand, which would break undo bookkeeping.
	ErrStructuralInCompound = errors.New("structural command in compound command")

	// ErrInvalidMerge indicates a merge of a layer into itself.
	ErrInvalidMerge = errors.New("invalid layer merge")

	// ErrDocumentSize indicates a document command whose size does not match
	// the layer collection.
	ErrDocumentSize = errors.New("document size mismatch")
)
