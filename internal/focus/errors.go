package focus

import "errors"

// ErrForeignElement is returned when a request names an element that
// belongs to another panel's tree.
var ErrForeignElement = errors.New("focus: element belongs to another panel")
