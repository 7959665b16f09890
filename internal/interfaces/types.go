// Package interfaces provides shared type aliases over the SDK translator
// package so internal packages can reference the transform signatures
// without importing the SDK path everywhere.
package interfaces

import (
	sdktranslator "github.com/modelrelay/modelrelay/sdk/translator"
)

// Aliases for the translator function types.
type TranslateRequestFunc = sdktranslator.RequestTransform

type TranslateResponseFunc = sdktranslator.ResponseStreamTransform

type TranslateResponseNonStreamFunc = sdktranslator.ResponseNonStreamTransform

type TranslateResponse = sdktranslator.ResponseTransform
