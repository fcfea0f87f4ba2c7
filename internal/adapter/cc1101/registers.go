package cc1101

// Configuration registers.
const (
	regIOCFG2   = 0x00
	regIOCFG0   = 0x02
	regFIFOTHR  = 0x03
	regSYNC1    = 0x04
	regSYNC0    = 0x05
	regPKTLEN   = 0x06
	regPKTCTRL1 = 0x07
	regPKTCTRL0 = 0x08
	regADDR     = 0x09
	regCHANNR   = 0x0A
	regFSCTRL1  = 0x0B
	regFSCTRL0  = 0x0C
	regFREQ2    = 0x0D
	regFREQ1    = 0x0E
	regFREQ0    = 0x0F
	regMDMCFG4  = 0x10
	regMDMCFG3  = 0x11
	regMDMCFG2  = 0x12
	regMDMCFG1  = 0x13
	regMDMCFG0  = 0x14
	regDEVIATN  = 0x15
	regMCSM1    = 0x17
	regMCSM0    = 0x18
	regFREND0   = 0x22
	regFSCAL3   = 0x23
	regFSCAL2   = 0x24
	regFSCAL1   = 0x25
	regFSCAL0   = 0x26
)

// Status registers, read with the burst bit set.
const (
	regPARTNUM   = 0x30
	regVERSION   = 0x31
	regMARCSTATE = 0x35
	regTXBYTES   = 0x3A
)

// Multi-byte targets.
const (
	regPATABLE = 0x3E
	regFIFO    = 0x3F
)

// Header byte flags.
const (
	flagBurst = 0x40
	flagRead  = 0x80
)

// Command strobes.
const (
	strobeSRES  = 0x30
	strobeSCAL  = 0x33
	strobeSTX   = 0x35
	strobeSIDLE = 0x36
	strobeSFTX  = 0x3B
	strobeSNOP  = 0x3D
)

// MARCSTATE values.
const (
	marcIdle        = 0x01
	marcTXUnderflow = 0x16
	marcStateMask   = 0x1F
)

// MDMCFG2 fields.
const (
	modFormatMask = 0x70
	modFormatOOK  = 0x30
	syncModeMask  = 0x07
)

// Crystal frequency of the reference design.
const fxoscHz = 26_000_000

// FIFO depth in bytes.
const fifoSize = 64

// baseConfig is written once after reset. Values follow the TI reference
// design for low data rate ASK/OOK transmission.
var baseConfig = []struct {
	addr, value byte
}{
	{regIOCFG2, 0x29},   // CHIP_RDYn
	{regIOCFG0, 0x06},   // asserts on sync, deasserts at end of packet
	{regFIFOTHR, 0x47},
	{regSYNC1, 0x00},
	{regSYNC0, 0x00},
	{regPKTCTRL1, 0x00}, // no address check, no status append
	{regPKTCTRL0, 0x00}, // FIFO mode, no CRC, fixed length
	{regADDR, 0x00},
	{regCHANNR, 0x00},
	{regFSCTRL1, 0x06},
	{regFSCTRL0, 0x00},
	{regMDMCFG1, 0x02},  // no FEC, CHANSPC_E=2
	{regMDMCFG0, 0xF8},
	{regDEVIATN, 0x15},
	{regMCSM1, 0x30},    // TXOFF_MODE=IDLE
	{regMCSM0, 0x18},    // autocalibrate on IDLE->TX
	{regFREND0, 0x11},   // PA_POWER=1: OOK uses PATABLE[0] for off, [1] for on
	{regFSCAL3, 0xE9},
	{regFSCAL2, 0x2A},
	{regFSCAL1, 0x00},
	{regFSCAL0, 0x1F},
}
