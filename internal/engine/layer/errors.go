package layer

import "errors"

// ErrIndexOutOfRange indicates a layer index outside [0, Count()).
var ErrIndexOutOfRange = errors.New("layer index out of range")
