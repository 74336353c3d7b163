// Package domain contains shared domain types used across the document
// sub-packages. Document-specific types live in sub-packages
// (domain/tracking, domain/durability). This root package holds sentinel
// errors, validation types, and the Action/WriteStager interfaces shared by
// the application layer.
package domain
