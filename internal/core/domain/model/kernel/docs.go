// Package kernel contains shared value objects used across the domain model:
// entity identifiers and geographic regions. Types here are immutable, validated
// on construction, and safe for concurrent use.
package kernel
