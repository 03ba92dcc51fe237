package packet

// Checksum calculates the Internet checksum (RFC 1071) over data.
//
// The buffer is summed as big-endian 16-bit words. An odd trailing byte is
// treated as the high byte of a word whose low byte is zero. Carries above
// bit 15 are folded back in until none remain and the one's complement of the
// result is returned.
//
// Checksumming a buffer that already carries a correct checksum yields zero.
func Checksum(data []byte) uint16 {
	var sum uint32

	for i := 0; i+1 < len(data); i += 2 {
		sum += uint32(data[i])<<8 | uint32(data[i+1])
	}
	if len(data)%2 == 1 {
		sum += uint32(data[len(data)-1]) << 8
	}

	for sum>>16 != 0 {
		sum = (sum >> 16) + (sum & 0xffff)
	}

	return ^uint16(sum)
}

// VerifyChecksum reports whether data carries a correct checksum.
func VerifyChecksum(data []byte) bool {
	return Checksum(data) == 0
}
