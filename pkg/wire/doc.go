// Package wire defines the ASCII wire grammar for the Grand Concerto /
// Essentia G serial control protocol.
//
// Commands are lines of the form "*<BODY>\r". Device responses and push
// notifications are lines of the form "#<BODY>" terminated by CR/LF.
//
// # Message kinds
//
// Every incoming line classifies into exactly one kind of a closed
// enumeration (zone status, zone/source configuration, EQ, keypad button,
// system events, acknowledgement, device error). Lines that match no kind,
// or that carry zone/source numbers outside the model's capability table,
// are reported as unparsable rather than as malformed messages.
//
// # Absent fields
//
// The device omits trailing fields in several replies: a powered-off zone
// status carries no source/volume/flags, a disabled zone or source
// configuration stops after the ENABLE0 field. Omitted fields are
// represented as nil pointers on the message structs, never as zero values.
package wire
