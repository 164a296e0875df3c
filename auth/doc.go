// Package auth configures how the transcription client authenticates to the
// job API: nothing, a static bearer token, an API key header, or short-lived
// HS256 service tokens minted per request (see auth/jwt).
package auth
