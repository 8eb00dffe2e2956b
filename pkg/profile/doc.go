// Package profile defines the capability tables for the supported amplifier
// models.
//
// The Grand Concerto and Essentia G share one command grammar; they differ
// only in zone/source counts and in which optional features (NuvoNet
// sources) are meaningful. A Profile is selected once per connection and is
// immutable afterwards. The command encoder and message classifier both use
// it for bounds validation.
package profile
