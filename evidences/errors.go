package evidences

import "errors"

var ErrBadCatalog = errors.New("bad catalog")
