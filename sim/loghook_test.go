package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var _ = Describe("Log hooks", func() {
	var (
		logger *logrus.Logger
		logs   *test.Hook
		s      *Scheduler
		a      *relay
	)

	BeforeEach(func() {
		logger, logs = test.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)

		s = NewScheduler(nil)
		a = newRelay("A", 2)
		Expect(s.Register(a)).To(Succeed())
	})

	It("should log messages", func() {
		s.AcceptHook(NewMsgLogger(logger))

		Expect(s.Inject(a.in.ID(), 0, num(4))).To(Succeed())
		Expect(s.Inject("A.price", 0, num(4))).To(HaveOccurred())

		entries := logs.AllEntries()
		Expect(entries).To(HaveLen(3))
		Expect(entries[0].Data["pos"]).To(Equal("MsgInjected"))
		Expect(entries[0].Data["dst"]).To(Equal("A.in"))
		Expect(entries[1].Data["pos"]).To(Equal("ExtTransition"))
		Expect(entries[1].Data["value"]).To(Equal("4"))
		Expect(entries[2].Level).To(Equal(logrus.WarnLevel))
		Expect(entries[2].Data["dst"]).To(Equal("A.price"))
	})

	It("should log transitions", func() {
		s.AcceptHook(NewTransitionLogger(logger))

		Expect(s.Inject(a.in.ID(), 0, num(4))).To(Succeed())
		Expect(s.Run()).To(Succeed())

		entries := logs.AllEntries()
		Expect(entries).To(HaveLen(3))
		Expect(entries[0].Message).To(Equal("external transition"))
		Expect(entries[1].Message).To(Equal("output"))
		Expect(entries[1].Data["port"]).To(Equal("out"))
		Expect(entries[2].Message).To(Equal("internal transition"))
		Expect(entries[2].Data["phase"]).To(Equal("passive"))
		Expect(entries[2].Data["elapsed"]).To(Equal("2"))
	})
})
