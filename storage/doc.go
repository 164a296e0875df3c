// Package storage provides object storage for interview recordings, with
// pluggable backends registered by name.
//
// # Backends
//
//   - storage/s3: Amazon S3 and S3-compatible storage, including presigned PUT URLs
//   - storage/local: local filesystem storage for development and tests
//
// # Configuration
//
//	storage:
//	  provider: "s3"
//	  bucket: "interview-audio"
//	  region: "us-east-1"
package storage
