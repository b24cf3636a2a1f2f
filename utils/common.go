package utils

const (
	// SMALLVEL is the face velocity magnitude below which upwinding blends
	// both sides instead of selecting one
	SMALLVEL = 1.e-8
)

