// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package flowrate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"safecopy/internal/pkg/flowrate"
)

func TestMonitorProgress(t *testing.T) {
	t.Parallel()

	m := flowrate.New(time.Second, time.Second)
	m.SetTransferSize(1000)

	m.Update(250)

	s := m.Status()
	require.True(t, s.Active)
	require.EqualValues(t, 250, s.Bytes)
	require.EqualValues(t, 750, s.BytesRem)
	require.Equal(t, "25.000%", s.Progress.String())

	require.EqualValues(t, 250, m.Done())

	m.Update(100)
	require.False(t, m.Status().Active)
	require.EqualValues(t, 250, m.Status().Bytes, "updates after Done are ignored")
}

func TestMonitorUnknownSize(t *testing.T) {
	t.Parallel()

	m := flowrate.New(0, 0)
	m.Update(10)

	s := m.Status()
	require.EqualValues(t, 10, s.Bytes)
	require.Zero(t, s.BytesRem)
	require.Zero(t, s.Progress)
}
