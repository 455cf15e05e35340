// Package draco decodes Draco-style compressed triangle meshes: connectivity
// (sequential index lists or an Edgebreaker symbol stream) and the
// prediction-coded attribute values attached to the decoded points.
package draco

import "github.com/pkg/errors"

// Decode errors. All of them are terminal for the current Decode call.
var (
	ErrInvalidHeader              = errors.New("invalid draco header")
	ErrTruncated                  = errors.New("truncated draco data")
	ErrMalformedConnectivity      = errors.New("malformed connectivity")
	ErrSequencingInconsistent     = errors.New("inconsistent attribute sequencing")
	ErrUnknownPredictionScheme    = errors.New("unknown prediction scheme")
	ErrPredictionRequiresTopology = errors.New("prediction scheme requires edgebreaker connectivity")
	ErrUnsupportedFeature         = errors.New("unsupported draco feature")
	ErrMalformedResidual          = errors.New("malformed attribute residual")
)
