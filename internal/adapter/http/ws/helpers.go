package wshandler

import "errors"

var errInvalidCoordinates = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
