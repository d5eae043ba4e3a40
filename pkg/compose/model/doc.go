// Package model provides the data structures shared by the compose package
// and its options. It defines the operation description handed to option
// hooks and the option interface itself.
package model
