// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package transfer_test

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"go.uber.org/atomic"

	"safecopy/internal/transfer"
)

var errDiskFull = errors.New("disk full")

// probe is shared by both handles of one transfer and records every close, and
// whether a close ever overlapped a read or a write.
type probe struct {
	events    []string
	m         sync.Mutex
	inFlight  atomic.Int32
	violation atomic.Bool
}

func (p *probe) record(event string) {
	p.m.Lock()
	p.events = append(p.events, event)
	p.m.Unlock()
}

func (p *probe) Events() []string {
	p.m.Lock()
	defer p.m.Unlock()

	return append([]string(nil), p.events...)
}

func (p *probe) enterIO() {
	p.inFlight.Inc()
}

func (p *probe) exitIO() {
	p.inFlight.Dec()
}

func (p *probe) close(name string) {
	if p.inFlight.Load() != 0 {
		p.violation.Store(true)
	}
	p.record("close " + name)
}

type source struct {
	r          io.Reader
	p          *probe
	beforeRead func(i int)
	closeErr   error
	zeroReads  bool
	reads      int
	closes     atomic.Int32
}

func (s *source) Read(b []byte) (int, error) {
	s.p.enterIO()
	defer s.p.exitIO()

	if s.closes.Load() != 0 {
		s.p.violation.Store(true)
	}

	s.reads++
	if s.beforeRead != nil {
		s.beforeRead(s.reads)
	}

	// every other read returns nothing, without being the end of data.
	if s.zeroReads && s.reads%2 == 1 {
		return 0, nil
	}

	return s.r.Read(b)
}

func (s *source) Close() error {
	s.closes.Inc()
	s.p.close("source")
	return s.closeErr
}

type destination struct {
	buf        bytes.Buffer
	p          *probe
	afterWrite func(i int)
	closeErr   error
	failAt     int
	writes     int
	closes     atomic.Int32
}

func (d *destination) Write(b []byte) (int, error) {
	d.p.enterIO()
	defer d.p.exitIO()

	if d.closes.Load() != 0 {
		d.p.violation.Store(true)
	}

	d.writes++
	if d.failAt != 0 && d.writes == d.failAt {
		return 0, errDiskFull
	}

	n, err := d.buf.Write(b)

	if d.afterWrite != nil {
		d.afterWrite(d.writes)
	}

	return n, err
}

func (d *destination) Close() error {
	d.closes.Inc()
	d.p.close("destination")
	return d.closeErr
}

// opener hands out one instrumented source and one instrumented destination.
type opener struct {
	src       *source
	dst       *destination
	p         *probe
	sourceErr error
	destErr   error
}

var _ transfer.Opener = (*opener)(nil)

func newOpener(data []byte) *opener {
	p := &probe{}

	return &opener{
		p:   p,
		src: &source{r: bytes.NewReader(data), p: p},
		dst: &destination{p: p},
	}
}

func (o *opener) OpenSource(string) (io.ReadCloser, error) {
	if o.sourceErr != nil {
		return nil, o.sourceErr
	}

	o.p.record("open source")
	return o.src, nil
}

func (o *opener) CreateDestination(string) (io.WriteCloser, error) {
	if o.destErr != nil {
		return nil, o.destErr
	}

	o.p.record("open destination")
	return o.dst, nil
}
