// Package dropservice contains the tipdrop drop registry: creation of
// single- and dual-token drops against the settlement contract, short-code
// generation and resolution, and creator-facing drop listings.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package dropservice
