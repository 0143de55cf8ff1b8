package simulation_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/cfgreplay/config"
	"github.com/sarchlab/cfgreplay/datarecording"
	"github.com/sarchlab/cfgreplay/dut/regfile"
	"github.com/sarchlab/cfgreplay/report"
	"github.com/sarchlab/cfgreplay/sequencer"
	"github.com/sarchlab/cfgreplay/simulation"
	"github.com/sarchlab/cfgreplay/stimulus"
	"github.com/sarchlab/cfgreplay/tracing"
)

func write(addr, data uint64) stimulus.Transaction {
	return stimulus.Transaction{Address: addr, DataIn: data, WriteEnable: true}
}

func read(addr, expected uint64) stimulus.Transaction {
	return stimulus.Transaction{
		Address:          addr,
		ReadEnable:       true,
		ExpectedReadData: expected,
		CheckFlag:        true,
	}
}

func startJob() stimulus.Transaction {
	tx := write(regfile.RegControl, 1)
	tx.Wait = stimulus.WaitForDevice

	return tx
}

func checkPoint() stimulus.Transaction {
	return stimulus.Transaction{CheckFlag: true}
}

func store(
	layout stimulus.Layout,
	cfg []uint64,
	rows ...stimulus.Transaction,
) *stimulus.Store {
	c, err := stimulus.ParseTestConfig(cfg, layout)
	Expect(err).ToNot(HaveOccurred())

	return &stimulus.Store{Config: c, Table: stimulus.NewTable(rows)}
}

func ack() stimulus.Transaction {
	return write(regfile.RegInterruptAck, 0xF)
}

// activity collects the bus writes and the sequencer states of a run.
type activity struct {
	writes []string
	states []string
}

func (a *activity) StartTask(task tracing.Task) {
	switch task.Kind {
	case "write":
		a.writes = append(a.writes, task.What)
	case "state":
		a.states = append(a.states, task.What)
	}
}

func (a *activity) StepTask(tracing.Task) {}

func (a *activity) EndTask(tracing.Task) {}

func (a *activity) count(addr string) int {
	n := 0

	for _, w := range a.writes {
		if w == addr {
			n++
		}
	}

	return n
}

// twoTests declares two tests with windows [0x100, 0x200] and
// [0x200, 0x300].
func twoTests(rows ...stimulus.Transaction) *stimulus.Store {
	return store(stimulus.LayoutPerTest,
		[]uint64{2, 2, 1, 0x100, 0x200, 1, 0x200, 0x300}, rows...)
}

// oneTest declares one test whose window is [0x100, 0x200].
func oneTest(rows ...stimulus.Transaction) *stimulus.Store {
	return store(stimulus.LayoutPerTest, []uint64{1, 1, 1, 0x100, 0x200},
		rows...)
}

var _ = Describe("Simulation", func() {
	var (
		out, errOut *bytes.Buffer
		devCfg      regfile.Config
	)

	BeforeEach(func() {
		out = new(bytes.Buffer)
		errOut = new(bytes.Buffer)
		devCfg = regfile.Config{JobCycles: 2, InterruptEnabled: true}
	})

	builder := func(s *stimulus.Store) simulation.Builder {
		return simulation.MakeBuilder().
			WithDevice(regfile.New(devCfg)).
			WithStimulus(s).
			WithDescription("unit workload", false).
			WithOutput(out, errOut)
	}

	run := func(b simulation.Builder) (*simulation.Simulation, report.Verdict) {
		sim, err := b.Build()
		Expect(err).ToNot(HaveOccurred())

		v, err := sim.Run()
		Expect(err).ToNot(HaveOccurred())

		return sim, v
	}

	It("should reject a builder without a device", func() {
		_, err := simulation.MakeBuilder().WithStimulus(oneTest()).Build()

		Expect(err).To(HaveOccurred())
	})

	It("should pass a clean replay against an always-ready device", func() {
		sim, v := run(builder(oneTest(startJob(), checkPoint())))

		Expect(sim.EndReason()).To(Equal(simulation.EndSequenceDone))
		Expect(v.ExitCode()).To(Equal(0))
		Expect(v.Checks).To(Equal(1))
		Expect(v.TestsCompleted).To(Equal(1))
		Expect(out.String()).To(ContainSubstring("Test 0 - \t passed with 0 errors :)"))
		Expect(out.String()).To(ContainSubstring("SUCCESS!"))
		Expect(errOut.String()).To(BeEmpty())
	})

	It("should report device errors", func() {
		devCfg.TestErrors = map[int]uint64{0: 3}

		_, v := run(builder(oneTest(startJob(), checkPoint())))

		Expect(v.TotalErrors).To(Equal(uint64(3)))
		Expect(v.ExitCode()).To(Equal(1))
		Expect(out.String()).To(ContainSubstring("Test 0 - \t failed with 3 errors."))
		Expect(out.String()).To(ContainSubstring("FAILED!"))
	})

	It("should wait for the device before checking", func() {
		devCfg.JobCycles = 10

		sim, v := run(builder(oneTest(startJob(), checkPoint())))

		Expect(v.ExitCode()).To(Equal(0))
		Expect(v.Tick).To(BeNumerically(">", 130+10*20))
		Expect(sim.Sequencer().Snapshot().ChecksScheduled).To(Equal(1))
	})

	Context("with device completions", func() {
		var a *activity

		BeforeEach(func() {
			a = &activity{}
		})

		traced := func(b simulation.Builder) *simulation.Simulation {
			sim, err := b.WithMaxTicks(20000).Build()
			Expect(err).ToNot(HaveOccurred())

			tracing.CollectTrace(sim.Bus(), a)
			tracing.CollectTrace(sim.Sequencer(), a)

			return sim
		}

		It("should move to the next test after each interrupt", func() {
			sim := traced(builder(twoTests(
				startJob(), ack(), checkPoint(),
				startJob(), ack(), checkPoint(),
			)))

			v, err := sim.Run()

			Expect(err).ToNot(HaveOccurred())
			Expect(sim.EndReason()).To(Equal(simulation.EndSequenceDone))
			Expect(v.ExitCode()).To(Equal(0))
			Expect(v.TestsCompleted).To(Equal(2))
			Expect(v.Checks).To(Equal(2))
			Expect(a.states).To(Equal(
				[]string{"WAIT_FOR_DEVICE", "WAIT_FOR_DEVICE"}))
			Expect(a.count("0xc")).To(Equal(2))
			Expect(out.String()).To(ContainSubstring("Test 0 - \t passed"))
			Expect(out.String()).To(ContainSubstring("Test 1 - \t passed"))
		})

		It("should acknowledge once per test when configured", func() {
			cfg := sequencer.DefaultConfig
			cfg.AutoAcknowledge = true

			sim := traced(builder(twoTests(
				startJob(), checkPoint(),
				startJob(), checkPoint(),
			)).WithSequencerConfig(cfg))

			v, err := sim.Run()

			Expect(err).ToNot(HaveOccurred())
			Expect(v.ExitCode()).To(Equal(0))
			Expect(v.TestsCompleted).To(Equal(2))
			Expect(a.states).To(Equal([]string{
				"WAIT_FOR_DEVICE", "LOWER_INTERRUPT",
				"WAIT_FOR_DEVICE", "LOWER_INTERRUPT",
			}))
			Expect(a.count("0xc")).To(Equal(2))
		})

		It("should leave the acknowledgement to the cfg_test table", func() {
			c := config.Default()
			c.Variant = "cfg_test"
			run, err := c.Resolve()
			Expect(err).ToNot(HaveOccurred())

			s := store(stimulus.LayoutGlobal, []uint64{1, 0x100, 0x200, 0},
				startJob(), ack(), checkPoint())
			sim := traced(builder(s).WithSequencerConfig(run.Sequencer()))

			v, err := sim.Run()

			Expect(err).ToNot(HaveOccurred())
			Expect(v.ExitCode()).To(Equal(0))
			Expect(a.count("0xc")).To(Equal(1))
			Expect(a.states).ToNot(ContainElement("LOWER_INTERRUPT"))
		})
	})

	It("should time out when the budget is too small", func() {
		devCfg.JobCycles = 100

		sim, v := run(builder(oneTest(startJob(), checkPoint())).
			WithMaxTicks(500))

		Expect(sim.EndReason()).To(Equal(simulation.EndTimeout))
		Expect(v.TimedOut).To(BeTrue())
		Expect(v.Tick).To(Equal(uint64(500)))
		Expect(v.ExitCode()).To(Equal(1))
		Expect(errOut.String()).To(Equal("[500] TIMEOUT - Arrived at max time.\n"))
	})

	It("should complete a write in one system cycle", func() {
		s := store(stimulus.LayoutGlobal, []uint64{0}, write(0x4, 0x5))

		_, v := run(builder(s))

		Expect(v.ExitCode()).To(Equal(0))
		Expect(v.Transactions).To(Equal(uint64(1)))
		Expect(v.AverageLatency).To(Equal(10.0))
	})

	Context("with reads", func() {
		readRun := func(expected uint64) report.Verdict {
			devCfg.Registers = map[uint64]uint64{0x10: 0xAB}
			s := store(stimulus.LayoutGlobal, []uint64{1, 0, 0x100},
				read(0x10, expected))

			cfg := sequencer.DefaultConfig
			cfg.EnableReads = true
			cfg.CompareReads = true

			_, v := run(builder(s).WithSequencerConfig(cfg))

			return v
		}

		It("should pass when the payload matches", func() {
			v := readRun(0xAB)

			Expect(v.ReadMismatches).To(Equal(uint64(0)))
			Expect(v.ExitCode()).To(Equal(0))
		})

		It("should count a mismatch", func() {
			v := readRun(0xCD)

			Expect(v.ReadMismatches).To(Equal(uint64(1)))
			Expect(v.ExitCode()).To(Equal(1))
			Expect(out.String()).To(MatchRegexp(
				`\[\d+\] Read mismatch at 0x10 - \t expected 0xcd, got 0xab\.`))
		})
	})

	It("should report exhausted stimulus", func() {
		s := store(stimulus.LayoutPerTest,
			[]uint64{2, 2, 1, 0x100, 0x200, 1, 0x200, 0x300},
			startJob(), checkPoint())

		_, v := run(builder(s))

		Expect(v.Exhausted).To(BeTrue())
		Expect(v.ExitCode()).To(Equal(1))
		Expect(errOut.String()).To(MatchRegexp(
			`\[\d+\] STIMULUS EXHAUSTED - 1 of 2 tests completed\.`))
	})

	It("should stop after the exit delay on error", func() {
		devCfg.TestErrors = map[int]uint64{0: 1}

		rows := []stimulus.Transaction{startJob(), checkPoint()}
		for i := 0; i < 10; i++ {
			rows = append(rows, write(0x20+uint64(i), uint64(i)))
		}

		s := store(stimulus.LayoutPerTest,
			[]uint64{2, 2, 1, 0x100, 0x200, 1, 0x200, 0x300},
			rows...)

		sim, v := run(builder(s).WithStopOnError(3))

		Expect(sim.EndReason()).To(Equal(simulation.EndExitDelay))
		Expect(sim.Sequencer().Done()).To(BeFalse())
		Expect(v.TotalErrors).To(Equal(uint64(1)))
		Expect(v.ExitCode()).To(Equal(1))
	})

	It("should stop when the device finishes", func() {
		devCfg.FinishAfter = 50

		sim, v := run(builder(oneTest(startJob(), checkPoint())))

		Expect(sim.EndReason()).To(Equal(simulation.EndDeviceFinished))
		Expect(v.Tick).To(Equal(uint64(49)))
	})

	It("should end with an error when a check cannot be looked up", func() {
		sim, err := builder(oneTest(checkPoint())).Build()
		Expect(err).ToNot(HaveOccurred())

		v, err := sim.Run()

		Expect(err).To(MatchError(ContainSubstring("test -1")))
		Expect(sim.EndReason()).To(Equal(simulation.EndError))
		Expect(v.End).To(Equal("error"))
		Expect(v.Err).To(HaveOccurred())
		Expect(v.ExitCode()).To(Equal(1))
		Expect(out.String()).To(ContainSubstring("Benchmark aborted"))
		Expect(out.String()).ToNot(ContainSubstring("SUCCESS"))
	})

	It("should log transactions when verbose", func() {
		run(builder(oneTest(startJob(), checkPoint())).WithVerbose(true))

		Expect(out.String()).To(ContainSubstring("New test 1"))
		Expect(out.String()).To(ContainSubstring("CfgBus start write 0x0"))
	})

	It("should write the trace, statistics and record", func() {
		dir := GinkgoT().TempDir()
		trace := filepath.Join(dir, "run.vcd")
		statsFile := filepath.Join(dir, "test_stats.txt")
		record := filepath.Join(dir, "run")

		devCfg.Registers = map[uint64]uint64{0x10: 0xAB}
		s := store(stimulus.LayoutGlobal, []uint64{1, 0, 0x100},
			read(0x10, 0xAB))

		cfg := sequencer.DefaultConfig
		cfg.EnableReads = true
		cfg.CompareReads = true

		_, v := run(builder(s).
			WithSequencerConfig(cfg).
			WithTrace(trace, 120).
			WithStatsFile(statsFile).
			WithRecord(record, 0, 0))

		Expect(out.String()).To(ContainSubstring("[120] Starting VCD dump."))

		vcd, err := os.ReadFile(trace)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(vcd)).To(ContainSubstring("$var wire 1"))
		Expect(string(vcd)).To(ContainSubstring("#120"))

		content, err := os.ReadFile(statsFile)
		Expect(err).ToNot(HaveOccurred())
		lines := strings.Fields(string(content))
		Expect(lines).To(HaveLen(3))
		Expect(lines[0]).To(Equal("171"))
		Expect(lines[2]).To(Equal("0"))
		Expect(v.ExitCode()).To(Equal(0))

		reader, err := datarecording.NewReader(record + ".sqlite3")
		Expect(err).ToNot(HaveOccurred())
		defer reader.Close()

		reader.MapTable(tracing.TraceTable, tracing.TaskRecord{})
		tasks, total, err := reader.Query(context.Background(),
			tracing.TraceTable,
			datarecording.QueryParams{Where: "Kind = ?", Args: []any{"read"}})
		Expect(err).ToNot(HaveOccurred())
		Expect(total).To(Equal(1))
		Expect(tasks[0].(*tracing.TaskRecord).Finished).To(BeTrue())
	})

	It("should serve the components while the run advances", func() {
		sim, err := builder(twoTests(
			startJob(), ack(), checkPoint(),
			startJob(), ack(), checkPoint(),
		)).WithMonitor(0, false).Build()
		Expect(err).ToNot(HaveOccurred())

		router := sim.Monitor().Router()
		done := make(chan struct{})
		polls := make(chan int)

		go func() {
			defer GinkgoRecover()

			for n := 1; ; n++ {
				for _, name := range []string{"Sequencer", "CfgBus", "Checker"} {
					rec := httptest.NewRecorder()
					router.ServeHTTP(rec, httptest.NewRequest(
						http.MethodGet, "/api/component/"+name, nil))
					Expect(rec.Code).To(Equal(http.StatusOK))
				}

				select {
				case <-done:
					polls <- n
					return
				default:
				}
			}
		}()

		v, err := sim.Run()
		close(done)

		Expect(err).ToNot(HaveOccurred())
		Expect(v.ExitCode()).To(Equal(0))
		Expect(v.Checks).To(Equal(2))
		Eventually(polls, 5*time.Second).Should(Receive(BeNumerically(">=", 1)))
	})

	It("should hold the tick loop while paused", func() {
		sim, err := builder(oneTest(startJob(), checkPoint())).Build()
		Expect(err).ToNot(HaveOccurred())

		sim.Pause()
		Expect(sim.Paused()).To(BeTrue())

		done := make(chan report.Verdict)
		go func() {
			defer GinkgoRecover()

			v, err := sim.Run()
			Expect(err).ToNot(HaveOccurred())
			done <- v
		}()

		Consistently(done, 50*time.Millisecond).ShouldNot(Receive())
		Expect(sim.CurrentTick()).To(Equal(uint64(0)))

		sim.Continue()

		var v report.Verdict
		Eventually(done, 5*time.Second).Should(Receive(&v))
		Expect(v.ExitCode()).To(Equal(0))
		Expect(sim.State().End).To(Equal("sequence done"))
	})
})
