package simulation

import (
	"github.com/sarchlab/cfgreplay/cfgbus"
	"github.com/sarchlab/cfgreplay/waveform"
)

// probes are the signals written to the waveform, sampled after each
// evaluation of the device.
func (s *Simulation) probes() []waveform.Probe {
	return []waveform.Probe{
		{Name: "clk_dev", Sample: waveform.Bool(func() bool {
			return s.timeBase.DeviceClock().LevelAt(s.timeBase.Now())
		})},
		{Name: "clk_sys", Sample: waveform.Bool(func() bool {
			return s.timeBase.SystemClock().LevelAt(s.timeBase.Now())
		})},
		{Name: "rst_n", Sample: waveform.Bool(func() bool {
			return s.timeBase.Phase().ResetReleased
		})},
		{Name: "aw_valid", Sample: waveform.Bool(func() bool {
			addrValid, _, _ := s.bus.Signals()
			return addrValid && s.bus.InFlight() == cfgbus.KindWrite
		})},
		{Name: "aw_ready", Sample: waveform.Bool(s.dev.WriteAddressReady)},
		{Name: "w_valid", Sample: waveform.Bool(func() bool {
			_, dataValid, _ := s.bus.Signals()
			return dataValid
		})},
		{Name: "w_ready", Sample: waveform.Bool(s.dev.WriteDataReady)},
		{Name: "ar_valid", Sample: waveform.Bool(func() bool {
			addrValid, _, _ := s.bus.Signals()
			return addrValid && s.bus.InFlight() == cfgbus.KindRead
		})},
		{Name: "ar_ready", Sample: waveform.Bool(s.dev.ReadAddressReady)},
		{Name: "r_valid", Sample: waveform.Bool(s.dev.ReadResponseValid)},
		{Name: "r_ready", Sample: waveform.Bool(func() bool {
			_, _, respReady := s.bus.Signals()
			return respReady
		})},
		{Name: "r_data", Width: 32, Sample: s.dev.ReadResponseData},
		{Name: "bus_addr", Width: 32, Sample: s.bus.Address},
		{Name: "bus_status", Width: 2, Sample: func() uint64 {
			return uint64(s.bus.Status())
		}},
		{Name: "interrupt", Sample: waveform.Bool(s.dev.Interrupt)},
		{Name: "errors", Width: 32, Sample: s.dev.Errors},
		{Name: "seq_state", Width: 2, Sample: func() uint64 {
			return uint64(s.seq.State())
		}},
		{Name: "cursor", Width: 32, Sample: func() uint64 {
			return uint64(s.seq.Cursor())
		}},
		{Name: "test_index", Width: 16, Sample: func() uint64 {
			return uint64(s.seq.CurrentTestIndex())
		}},
	}
}
