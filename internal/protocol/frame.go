package protocol

// Frame geometry. The radio is configured for fixed FrameLen-byte packets.
const (
	SpacerLen = 5
	FrameLen  = SpacerLen + PayloadLen
)

// Frame returns the 10-byte transmission unit: SpacerLen zero bytes followed
// by the packed payload.
func (p Packet) Frame() []byte {
	frame := make([]byte, SpacerLen, FrameLen)
	return append(frame, p.Payload()...)
}
