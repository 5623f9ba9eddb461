package model

import "time"

// SourceKind tells the resolver where the bytes of a file are expected to live.
type SourceKind string

const (
	SourceUpload SourceKind = "upload"
	SourceLocal  SourceKind = "local"
	SourceRemote SourceKind = "remote"
)

// AudioReference names one file of a batch. Filename is its identity within the batch.
type AudioReference struct {
	Filename string
	Source   SourceKind
}

// StagedFile is a local, readable copy of an audio file inside the working area.
type StagedFile struct {
	Filename   string
	LocalPath  string
	RelPath    string // relative to the working-area root, slash separated
	// Origin is where the bytes came from and outlives the batch: a library or
	// shared-upload path, "upload:<name>" or "blob:<name>".
	Origin     string
	ByteLength int64
	// Owned is false when the bytes were already resident and must survive the batch.
	Owned bool
}

type FileInfo struct {
	FullPath string
	ModTime  time.Time
	Name     string
}
