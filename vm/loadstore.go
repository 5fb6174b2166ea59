package vm

// loadValue reads the word at ea, selects the byte/halfword/word lane
// addressed by ea's low bits, and sign- or zero-extends it to 32 bits
// according to funct3.
//
// funct3 width/signedness (RV32I LOAD opcode):
//
//	0x0 LB  (signed byte)   0x4 LBU (unsigned byte)
//	0x1 LH  (signed half)   0x5 LHU (unsigned half)
//	0x2 LW  (word, width/signedness irrelevant)
func (p *Processor) loadValue(ea uint32, funct3 uint32) (uint32, error) {
	switch funct3 {
	case 0x0, 0x4:
		b, err := p.Memory.ReadByte(ea)
		if err != nil {
			return 0, err
		}
		if funct3 == 0x0 {
			return uint32(int32(int8(b))), nil
		}
		return uint32(b), nil

	case 0x1, 0x5:
		h, err := p.Memory.ReadHalf(ea)
		if err != nil {
			return 0, err
		}
		if funct3 == 0x1 {
			return uint32(int32(int16(h))), nil
		}
		return uint32(h), nil

	default: // 0x2: LW
		return p.Memory.ReadWord(ea)
	}
}

// storeValue replicates the low byte/halfword of the source register into
// the lane addressed by ea's low bits via a read-modify-write (mask-clear
// then OR-in), so stores never leave stale bits in untouched lanes.
//
// funct3 width (RV32I STORE opcode): 0x0 SB, 0x1 SH, 0x2 SW.
func (p *Processor) storeValue(ea uint32, funct3 uint32, source uint32) error {
	word, err := p.Memory.ReadWord(ea)
	if err != nil {
		return err
	}

	lane := ea & 0x3

	var storeData, storeMask uint32
	switch funct3 {
	case 0x0: // SB
		b := source & Mask8Bit
		storeData = b << (8 * lane)
		storeMask = Mask8Bit << (8 * lane)
	case 0x1: // SH
		h := source & Mask16Bit
		if (ea>>1)&1 == 1 {
			storeData = h << 16
			storeMask = Mask16Bit << 16
		} else {
			storeData = h
			storeMask = Mask16Bit
		}
	default: // SW
		storeData = source
		storeMask = Mask32Bit
	}

	result := (word &^ storeMask) | (storeData & storeMask)
	return p.Memory.WriteWord(ea, result)
}
