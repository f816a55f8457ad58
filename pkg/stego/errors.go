package stego

import "errors"

// ErrCapacityExceeded indicates the carrier cannot hold header plus payload.
var ErrCapacityExceeded = errors.New("payload too large for carrier")

// ErrTruncatedRead indicates the carrier ran out before the declared
// payload length was read back.
var ErrTruncatedRead = errors.New("carrier holds fewer bytes than the header declares")

// ErrEmbedFailed indicates a coefficient could not be forced to the wanted
// parity, usually because the block is saturated at black or white.
var ErrEmbedFailed = errors.New("could not embed bit into carrier block")

// ErrUnknownAlgorithm is returned for an algorithm name outside the known set.
var ErrUnknownAlgorithm = errors.New("unknown steganography algorithm")

// ErrBitsPerChannel indicates a bit width outside 1..8.
var ErrBitsPerChannel = errors.New("bits per channel must be between 1 and 8")
