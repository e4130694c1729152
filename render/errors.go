package render

import "errors"

var (
	// ErrMissingAnchor is returned when a template lacks a required slot.
	ErrMissingAnchor = errors.New("render: missing anchor")
	// ErrDuplicateAnchor is returned when a slot selector matches more than one node.
	ErrDuplicateAnchor = errors.New("render: duplicate anchor")
)
