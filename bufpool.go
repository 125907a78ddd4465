package peter

import "github.com/valyala/bytebufferpool"

// recordBufferPool pools the fixed-size ciphertext/plaintext buffers
// used per record, mirroring the teacher's acquireBuffer/releaseBuffer
// convention around bytebufferpool.Pool: buffers are grown to the
// requested capacity, wiped before reuse, and wiped again on release
// since they may have held key-derived plaintext.
var recordBufferPool bytebufferpool.Pool

func wipeMemory(b []byte) {
	b = b[:cap(b)]
	for i := range b {
		b[i] = 0
	}
}

func acquireBuffer(n int) *bytebufferpool.ByteBuffer {
	buf := recordBufferPool.Get()
	if cap(buf.B) < n {
		wipeMemory(buf.B)
		buf.B = make([]byte, n)
	} else {
		buf.B = buf.B[:n]
	}
	return buf
}

func releaseBuffer(buf *bytebufferpool.ByteBuffer) {
	wipeMemory(buf.B)
	recordBufferPool.Put(buf)
}
