package raster

// LZW compression with the parameters mandated by the PostScript LZWDecode
// filter: code widths from 9 to 12 bits, a clear-table header, and an
// end-of-data footer.

const (
	lzwCodeClearTable = 256
	lzwCodeEOD        = 257
	lzwCodeFirst      = 258

	lzwBitsMin = 9
	lzwBitsMax = 12
)

func lzwBitsBoundary(bits uint) int {
	return 1<<bits - 1
}

// lzwBuf packs variable-width codes into bytes, most significant bit first.
type lzwBuf struct {
	data        []byte
	pending     uint32
	pendingBits uint
}

// storeBits appends the lowest numBits bits of value. The bits above numBits
// must be zero.
func (b *lzwBuf) storeBits(value uint16, numBits uint) {
	b.pending = b.pending<<numBits | uint32(value)
	b.pendingBits += numBits
	for 8 <= b.pendingBits {
		b.data = append(b.data, byte(b.pending>>(b.pendingBits-8)))
		b.pendingBits -= 8
	}
}

// storePending flushes the remaining bits, padded with zeros, after the last
// storeBits.
func (b *lzwBuf) storePending() {
	if b.pendingBits == 0 {
		return
	}
	b.data = append(b.data, byte(b.pending<<(8-b.pendingBits)))
	b.pendingBits = 0
}

// An lzwSymbol packs three values:
//
//	12 bits (31 down to 20): the code representing this symbol
//	12 bits (19 down to  8): the previous code in the chain
//	 8 bits ( 7 down to  0): the next byte in the chain
//
// The prev and next fields together are the key of the symbol table, the
// code its value. Codes start at 258, so zero marks a free slot.
type lzwSymbol uint32

const (
	lzwSymbolKeyMask lzwSymbol = 0x000fffff
	lzwSymbolFree    lzwSymbol = 0
)

func lzwSymbolKey(prev int, next byte) lzwSymbol {
	return lzwSymbol(prev)<<8 | lzwSymbol(next)
}

func (s lzwSymbol) code() int {
	return int(s >> 20)
}

// The table size and both moduli are prime, sized for the at most 2^12
// symbols so it never fills and never grows.
const (
	lzwSymbolTableSize = 9013
	lzwSymbolMod1      = lzwSymbolTableSize
	lzwSymbolMod2      = 9011
)

type lzwSymbolTable struct {
	table [lzwSymbolTableSize]lzwSymbol
}

func (t *lzwSymbolTable) reset() {
	clear(t.table[:])
}

// lookup probes for the symbol's key with double hashing. It returns the
// live slot holding the key, or the free slot where it belongs. Entries are
// never deleted, so a free slot always terminates the probe.
func (t *lzwSymbolTable) lookup(symbol lzwSymbol) (*lzwSymbol, bool) {
	hash := int(symbol & lzwSymbolKeyMask)
	idx := hash % lzwSymbolMod1
	step := 0

	for i := 0; i < lzwSymbolTableSize; i++ {
		candidate := t.table[idx]
		if candidate == lzwSymbolFree {
			return &t.table[idx], false
		}
		if candidate&lzwSymbolKeyMask == symbol&lzwSymbolKeyMask {
			return &t.table[idx], true
		}

		if step == 0 {
			step = hash % lzwSymbolMod2
			if step == 0 {
				step = 1
			}
		}
		idx += step
		if idx >= lzwSymbolTableSize {
			idx -= lzwSymbolTableSize
		}
	}

	return nil, false
}

// LZWCompress compresses data with the PostScript variant of the LZW
// algorithm. It returns nil for empty input.
func LZWCompress(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}

	buf := lzwBuf{data: make([]byte, 0, len(data))}
	table := &lzwSymbolTable{}

	codeNext := lzwCodeFirst
	codeBits := uint(lzwBitsMin)

	buf.storeBits(lzwCodeClearTable, codeBits)

	pos := 0
	for {
		// find the longest run already in the symbol table
		prev := int(data[pos])
		pos++

		var slot *lzwSymbol
		var next byte
		if pos < len(data) {
			for {
				next = data[pos]
				pos++
				var ok bool
				if slot, ok = table.lookup(lzwSymbolKey(prev, next)); ok {
					prev = slot.code()
				}
				if pos == len(data) || *slot == lzwSymbolFree {
					break
				}
			}
			if *slot == lzwSymbolFree {
				// the unmatched byte starts the next run
				pos--
			}
		}

		// prev is either a bare input byte or the code of the last
		// successful lookup
		buf.storeBits(uint16(prev), codeBits)

		if pos == len(data) {
			break
		}

		*slot = lzwSymbol(codeNext)<<20 | lzwSymbolKey(prev, next)&lzwSymbolKeyMask

		codeNext++
		if lzwBitsBoundary(codeBits) < codeNext {
			codeBits++
			if lzwBitsMax < codeBits {
				table.reset()
				buf.storeBits(lzwCodeClearTable, codeBits-1)
				codeBits = lzwBitsMin
				codeNext = lzwCodeFirst
			}
		}
	}

	buf.storeBits(lzwCodeEOD, codeBits)
	buf.storePending()
	return buf.data
}
