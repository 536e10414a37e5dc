// Package format implements the framed binary container used to persist
// clubcards.
//
// A frame is laid out as
//
//	Magic        (4 bytes)  "CLUB"
//	Version      (4 bytes)
//	Compression  (1 byte)
//	CodecName    (2 byte length + bytes)
//	Checksum     (4 bytes)  CRC32C of the stored payload
//	PayloadLen   (4 bytes)
//	Payload      (PayloadLen bytes)
//
// All integers are little endian. A compressed payload starts with an
// 8 byte block header holding the uncompressed and compressed sizes.
package format
