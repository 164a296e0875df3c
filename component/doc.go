// Package component defines the lifecycle interface shared by the
// infrastructure pieces a transcription run depends on, and a registry that
// starts them in order and stops them in reverse.
package component
