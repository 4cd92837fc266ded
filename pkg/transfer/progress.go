// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package transfer

import "io"

// ProgressFunc receives the transfer percentage, 0-100. It is invoked at the
// transport's natural read cadence, without smoothing or throttling, and the
// reported value never decreases within one attempt.
type ProgressFunc func(percent int)

// progressReader converts byte-level reads of the outbound body into
// percentage callbacks. Every executor sends its body through one of these,
// so strategy choice is invisible to progress observers.
type progressReader struct {
	r     io.Reader
	total int64
	sent  int64
	last  int
	fn    ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, last: -1, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.fn == nil || p.total <= 0 {
		return
	}
	pct := int(p.sent * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	if pct > p.last {
		p.last = pct
		p.fn(pct)
	}
}
