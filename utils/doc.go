// Package utils provides internal utility functions for the truck simulator.
//
// It contains time formatting and parsing helpers shared by the path loader,
// the clock and the SIRI output.
package utils
