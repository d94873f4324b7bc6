// Package topic implements hierarchical event kinds.
//
// Kinds are dot separated ("pointer.down", "focus.blur"). Handler
// registrations use the same type as a pattern, with "*" matching one
// segment and "**" matching any number of segments:
//
//	pointer.*      matches pointer.down, pointer.up, but not pointer.capture.lost
//	pointer.**     matches every pointer kind
//	focus.in       matches only focus.in
package topic
