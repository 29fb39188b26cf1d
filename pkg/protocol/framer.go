package protocol

// Framer splits a byte stream into frame candidates. It only follows the
// envelope structure, checksum and command are left to Parse.
type Framer struct {
	buf  []byte
	need int
}

// Push consumes one byte. It returns the bytes of a frame candidate once
// the last byte of the candidate is consumed.
func (f *Framer) Push(b byte) []byte {
	if len(f.buf) == 0 {
		if b != Head {
			return nil
		}
		f.buf = append(f.buf, b)
		return nil
	}
	f.buf = append(f.buf, b)
	if len(f.buf) == 3 {
		f.need = int(b) + Overhead
	}
	if f.need == 0 || len(f.buf) < f.need {
		return nil
	}
	out := f.buf
	f.buf, f.need = nil, 0
	return out
}

// Reset drops a partially received candidate.
func (f *Framer) Reset() {
	f.buf, f.need = nil, 0
}

// Pending reports whether a candidate is partially received.
func (f *Framer) Pending() bool {
	return len(f.buf) > 0
}
