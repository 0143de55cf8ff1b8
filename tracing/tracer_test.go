package tracing

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/cfgreplay/hooking"
)

type tracedDomain struct {
	*hooking.HookableBase
	name string
}

func (d *tracedDomain) Name() string {
	return d.name
}

func newTracedDomain(name string) *tracedDomain {
	return &tracedDomain{
		HookableBase: hooking.NewHookableBase(),
		name:         name,
	}
}

var _ = Describe("CollectTrace", func() {
	It("should refuse the same tracer twice", func() {
		domain := newTracedDomain("bus")
		tracer := NewTotalTimeTracer(AllTasks)

		CollectTrace(domain, tracer)

		Expect(func() { CollectTrace(domain, tracer) }).To(Panic())
	})
})

var _ = Describe("TotalTimeTracer", func() {
	var (
		domain *tracedDomain
		tracer *TotalTimeTracer
	)

	BeforeEach(func() {
		domain = newTracedDomain("bus")
		tracer = NewTotalTimeTracer(KindIs("write"))
		CollectTrace(domain, tracer)
	})

	It("should sum the duration of matching tasks", func() {
		StartTask("w1", "", domain, 130, "write", "0x4", nil)
		StartTask("r1", "", domain, 130, "read", "0x8", nil)
		EndTask("w1", domain, 140)
		EndTask("r1", domain, 170)
		StartTask("w2", "", domain, 150, "write", "0x0", nil)
		EndTask("w2", domain, 180)

		Expect(tracer.TotalTicks()).To(Equal(uint64(40)))
		Expect(tracer.Completed()).To(Equal(uint64(2)))
		Expect(tracer.AverageTicks()).To(BeNumerically("==", 20))
	})

	It("should report zero average without tasks", func() {
		Expect(tracer.AverageTicks()).To(BeZero())
	})
})

var _ = Describe("LogTracer", func() {
	It("should print starts, steps and ends", func() {
		buf := new(bytes.Buffer)
		domain := newTracedDomain("bus")
		CollectTrace(domain, NewLogTracer(log.New(buf, "", 0), nil))

		StartTask("w1", "", domain, 130, "write", "0x4", nil)
		AddTaskStep("w1", domain, 130, "address accepted")
		EndTask("w1", domain, 140)

		Expect(buf.String()).To(Equal(
			"[130] bus start write 0x4\n" +
				"[130] bus step write 0x4: address accepted\n" +
				"[140] bus end write 0x4 (10 ticks)\n"))
	})

	It("should skip filtered tasks", func() {
		buf := new(bytes.Buffer)
		domain := newTracedDomain("bus")
		CollectTrace(domain, NewLogTracer(log.New(buf, "", 0), KindIs("read")))

		StartTask("w1", "", domain, 130, "write", "0x4", nil)
		EndTask("w1", domain, 140)

		Expect(buf.String()).To(BeEmpty())
	})
})
