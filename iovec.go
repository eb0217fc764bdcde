// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

// IoVec represents a scatter/gather I/O descriptor compatible with the
// standard Linux struct iovec. Buffer.IoVecs returns these so a collaborator
// can pass a Buffer's segments to a vectored I/O syscall (readv, writev,
// preadv, pwritev, io_uring operations) without copying.
//
// Memory layout matches the C struct iovec exactly:
//
//	struct iovec {
//	    void  *iov_base;  // Starting address
//	    size_t iov_len;   // Number of bytes
//	};
//
// The caller must ensure Base points to valid memory for the lifetime of
// any I/O operation using this IoVec; for IoVecs returned by Buffer.IoVecs,
// that means not mutating the Buffer until the I/O call returns.
type IoVec struct {
	Base *byte
	Len  uint64
}
