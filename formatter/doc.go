// Package formatter provides response filtering and serialization for SIRI responses.
//
// This package is organized into:
// - wrapper.go: Vehicle Monitoring filtering
// - json.go: JSON serialization
// - xml.go: XML serialization with proper escaping
//
// XML is written by hand to keep SIRI element order exact.
package formatter
