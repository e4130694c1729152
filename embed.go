package pressroom

import "embed"

// EmbeddedAssets contains static assets shipped with pressroom:
// admin.js, admin.css and blog.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
