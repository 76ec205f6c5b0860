package sse

import "unicode/utf8"

// ChunkDecoder converts a raw byte stream into text incrementally. A
// multi-byte UTF-8 codepoint may be split across two reads from the
// network; the decoder holds the partial bytes back until the rest of
// the codepoint arrives, so the line parser above it only ever sees
// whole codepoints.
type ChunkDecoder struct {
	partial []byte
}

// Decode returns the text decodable from the held-back bytes of the
// previous call plus chunk. Trailing bytes that begin a codepoint whose
// continuation has not arrived yet are retained for the next call.
func (d *ChunkDecoder) Decode(chunk []byte) string {
	buf := chunk
	if len(d.partial) > 0 {
		buf = append(d.partial, chunk...)
		d.partial = nil
	}

	complete := len(buf)
	for i := len(buf) - 1; i >= 0 && len(buf)-i < utf8.UTFMax; i-- {
		b := buf[i]
		if b < utf8.RuneSelf {
			// ASCII byte: everything up to the end is complete.
			break
		}
		if utf8.RuneStart(b) {
			if !utf8.FullRune(buf[i:]) {
				complete = i
			}
			break
		}
	}

	if complete < len(buf) {
		d.partial = append([]byte(nil), buf[complete:]...)
		buf = buf[:complete]
	}

	return string(buf)
}

// Flush returns any text still held back at end of stream. The held
// bytes are necessarily a truncated codepoint, so they decode to the
// Unicode replacement character rather than leaking invalid UTF-8.
func (d *ChunkDecoder) Flush() string {
	if len(d.partial) == 0 {
		return ""
	}

	d.partial = nil
	return string(utf8.RuneError)
}
