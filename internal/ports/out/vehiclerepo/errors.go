package vehiclerepo

import "errors"

// ErrOwnerNotFound indicates the vehicle references an account that does not exist.
var ErrOwnerNotFound = errors.New("vehicle owner not found")
