// Package hash provides the checksums used by clubcard persistence.
//
// Every encoded frame carries a CRC32-Castagnoli (CRC32C) checksum of its
// stored payload, and S3 uploads send the same checksum so the service can
// validate the object on arrival:
//
//	sum := hash.CRC32C(payload)
//	header := hash.CRC32CBase64(payload) // x-amz-checksum-crc32c
//
// Go's hash/crc32 uses hardware instructions for the Castagnoli polynomial
// when available (SSE4.2 on x86-64, the CRC extension on ARM64).
package hash
