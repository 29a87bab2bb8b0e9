package caf

// calcDuration derives the stream's total duration in frames, following
// CAFFile::calc_duration's priority order: an explicit valid-frames count
// wins outright; otherwise an empty packet table falls back to
// data-size/bytes-per-packet*frames-per-packet; otherwise a constant
// frames-per-packet format multiplies by the packet count; otherwise the
// format cannot express a duration (Parse rejects such a file with
// ErrUnsupportedFormat), and this function sums the packet table's
// per-packet frame counts.
func calcDuration(m *Model) int64 {
	asbd := m.EffectiveFormat().ASBD

	if m.PacketInfo.ValidFrames != 0 {
		return int64(float64(m.PacketInfo.ValidFrames) * m.timeScale())
	}

	if len(m.PacketTable) == 0 {
		if asbd.BytesPerPacket != 0 && asbd.FramesPerPacket != 0 {
			return m.DataSize / int64(asbd.BytesPerPacket) * int64(asbd.FramesPerPacket)
		}

		return 0
	}

	if asbd.FramesPerPacket != 0 {
		return int64(len(m.PacketTable)) * int64(asbd.FramesPerPacket)
	}

	var total int64
	for _, p := range m.PacketTable {
		total += int64(p.VariableFrames)
	}

	return total
}
