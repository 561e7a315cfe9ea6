package web

import "embed"

// StaticFS embeds the browser client (html/css/js).
//
//go:embed static/*
var StaticFS embed.FS
