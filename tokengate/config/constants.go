package config

import "time"

// UI constants
const (
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	EmbedDefaultColor = 0x2B2D31

	// Pagination
	TokensPerPage = 10
)

// Operation timeouts
const (
	ClaimTimeout            = 30 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	SweepTimeout            = 2 * time.Minute
)
