package main

import (
	"audio-pipeline/cmd/apipe/cmd"
)

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.6 init -g main.go -d ./,../../internal/api -o ../../docs

// @title Audio Pipeline API
// @version 1.0
// @description Audio ingestion, transcription and deduplicated persistence.
// @BasePath /
func main() {
	cmd.Execute()
}
