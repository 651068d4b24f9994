// Package storage archives uploaded audio in object storage. Backends register
// themselves on import:
//
//	import (
//		_ "github.com/kbukum/lyrebird/storage/local"
//		_ "github.com/kbukum/lyrebird/storage/s3"
//	)
//
//	store, err := storage.New(cfg, log)
package storage
